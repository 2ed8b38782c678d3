package openfoodfacts

// offSearchResponse is the search endpoint envelope.
type offSearchResponse struct {
	Count    int          `json:"count"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Products []offProduct `json:"products"`
}

// offProductResponse is the single-product endpoint envelope.
type offProductResponse struct {
	Status        int         `json:"status"`
	StatusVerbose string      `json:"status_verbose"`
	Code          string      `json:"code"`
	Product       *offProduct `json:"product"`
}

// offProduct is a product record on the wire.
type offProduct struct {
	Code        string        `json:"code"`
	ProductName string        `json:"product_name"`
	Brands      string        `json:"brands"`
	ServingSize string        `json:"serving_size"`
	Nutriments  offNutriments `json:"nutriments"`
}

// offNutriments carries per-100g nutriment values. Field names follow the
// provider's hyphenated keys.
type offNutriments struct {
	EnergyKcal100G    float64 `json:"energy-kcal_100g"`
	Proteins100G      float64 `json:"proteins_100g"`
	Carbohydrates100G float64 `json:"carbohydrates_100g"`
	Fat100G           float64 `json:"fat_100g"`
	Fiber100G         float64 `json:"fiber_100g"`
	Sugars100G        float64 `json:"sugars_100g"`
	Sodium100G        float64 `json:"sodium_100g"`
}
