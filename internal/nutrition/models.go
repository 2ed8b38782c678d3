// Package nutrition provides food database lookups and nutrition logging.
package nutrition

import (
	"context"
	"errors"
	"time"
)

// Domain errors.
var (
	ErrFoodNotFound        = errors.New("food not found")
	ErrProviderUnavailable = errors.New("food database unavailable")
	ErrLogNotFound         = errors.New("nutrition log not found")
)

// Macros are macronutrient values. On a Food they are per 100g; on a log
// entry they are scaled to the logged quantity.
type Macros struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"proteinG"`
	CarbsG   float64 `json:"carbsG"`
	FatG     float64 `json:"fatG"`
	FiberG   float64 `json:"fiberG,omitempty"`
	SugarG   float64 `json:"sugarG,omitempty"`
	SodiumMG float64 `json:"sodiumMg,omitempty"`
}

// Scale returns the macros for the given quantity in grams.
func (m Macros) Scale(quantityG float64) Macros {
	factor := quantityG / 100
	return Macros{
		Calories: m.Calories * factor,
		ProteinG: m.ProteinG * factor,
		CarbsG:   m.CarbsG * factor,
		FatG:     m.FatG * factor,
		FiberG:   m.FiberG * factor,
		SugarG:   m.SugarG * factor,
		SodiumMG: m.SodiumMG * factor,
	}
}

// Food is a food database record with per-100g nutriments.
type Food struct {
	Barcode     string `json:"barcode,omitempty"`
	Name        string `json:"name"`
	Brand       string `json:"brand,omitempty"`
	ServingSize string `json:"servingSize,omitempty"`
	Per100G     Macros `json:"per100g"`
}

// LogEntry is one logged food consumption.
type LogEntry struct {
	// ID is the entry identifier (format: nlog_XXXX).
	ID string

	// UserID is the owning user.
	UserID string

	// FoodName is the food as logged.
	FoodName string

	// Barcode optionally links the entry to a database product.
	Barcode string

	// QuantityG is the consumed quantity in grams.
	QuantityG float64

	// Macros are the macros for the logged quantity.
	Macros Macros

	// LoggedAt is when the food was consumed.
	LoggedAt time.Time

	// CreatedAt is when the entry was recorded.
	CreatedAt time.Time
}

// DailySummary aggregates one day's logged intake.
type DailySummary struct {
	Date       time.Time `json:"date"`
	EntryCount int       `json:"entryCount"`
	Macros     Macros    `json:"macros"`
}

// SummarizeDay computes the aggregate for the given entries.
func SummarizeDay(date time.Time, entries []*LogEntry) *DailySummary {
	summary := &DailySummary{Date: date, EntryCount: len(entries)}
	for _, entry := range entries {
		summary.Macros.Calories += entry.Macros.Calories
		summary.Macros.ProteinG += entry.Macros.ProteinG
		summary.Macros.CarbsG += entry.Macros.CarbsG
		summary.Macros.FatG += entry.Macros.FatG
		summary.Macros.FiberG += entry.Macros.FiberG
		summary.Macros.SugarG += entry.Macros.SugarG
		summary.Macros.SodiumMG += entry.Macros.SodiumMG
	}
	return summary
}

// Provider is a food database client.
type Provider interface {
	// Search returns foods matching the query by name.
	Search(ctx context.Context, query string, limit int) ([]Food, error)

	// GetByBarcode returns the food for a product barcode.
	GetByBarcode(ctx context.Context, barcode string) (*Food, error)

	// Name returns the provider name.
	Name() string
}
