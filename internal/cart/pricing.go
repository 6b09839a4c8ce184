package cart

import (
	"fmt"
	"math"
	"time"

	"farmrent/internal/models"
)

// Days counts billable whole days between two YYYY-MM-DD dates:
// ceiling of the absolute difference, never less than one day, so a
// same-day rental still bills a single day.
func Days(startDate, endDate string) (int, error) {
	start, err := time.Parse(models.DateLayout, startDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(models.DateLayout, endDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}

	hours := math.Abs(end.Sub(start).Hours())
	days := int(math.Ceil(hours / 24))
	if days < 1 {
		days = 1
	}
	return days, nil
}

// LineTotal is pricePerDay × days × quantity for a single entry.
func LineTotal(item models.CartItem) (float64, error) {
	days, err := Days(item.StartDate, item.EndDate)
	if err != nil {
		return 0, err
	}
	return item.Item.PricePerDay * float64(days) * float64(item.Quantity), nil
}

// Totals is the priced summary of a cart.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals sums line totals and applies the tax rate.
func ComputeTotals(items []models.CartItem, taxRate float64) (Totals, error) {
	if taxRate <= 0 {
		taxRate = models.DefaultTaxRate
	}

	var subtotal float64
	for _, it := range items {
		line, err := LineTotal(it)
		if err != nil {
			return Totals{}, err
		}
		subtotal += line
	}

	tax := subtotal * taxRate
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal + tax}, nil
}
