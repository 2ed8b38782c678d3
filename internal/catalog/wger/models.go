package wger

// wgerSearchResponse is the paginated envelope returned by the exercise
// search endpoint.
type wgerSearchResponse struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []wgerExercise `json:"results"`
}

// wgerExercise is a single exercise record on the wire.
type wgerExercise struct {
	ID           int         `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Muscles      []wgerNamed `json:"muscles"`
	Equipment    []wgerNamed `json:"equipment"`
	Difficulty   string      `json:"difficulty"`
	Instructions []string    `json:"instructions"`
	Images       []wgerImage `json:"images"`
	Videos       []wgerVideo `json:"videos"`
}

// wgerNamed is a referenced entity carrying only id and name.
type wgerNamed struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// wgerImage is an exercise image record.
type wgerImage struct {
	Image  string `json:"image"`
	IsMain bool   `json:"is_main"`
}

// wgerVideo is an exercise video record.
type wgerVideo struct {
	Video string `json:"video"`
}

// wgerErrorResponse is the error envelope for non-2xx responses.
type wgerErrorResponse struct {
	Detail string `json:"detail"`
}
