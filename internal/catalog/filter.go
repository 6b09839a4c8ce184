package catalog

import (
	"strings"

	"farmrent/internal/models"
)

// Matches reports whether the equipment satisfies every active filter.
// Zero-valued filter fields place no restriction, so the zero Filters
// matches everything.
func Matches(e models.Equipment, f models.Filters) bool {
	if q := strings.TrimSpace(f.SearchQuery); q != "" {
		if !strings.Contains(strings.ToLower(e.Name), strings.ToLower(q)) {
			return false
		}
	}

	if len(f.Category) > 0 && !contains(f.Category, e.Category) {
		return false
	}

	// Price bounds are inclusive; PriceMax <= 0 leaves the top open.
	if e.PricePerDay < f.PriceMin {
		return false
	}
	if f.PriceMax > 0 && e.PricePerDay > f.PriceMax {
		return false
	}

	if len(f.AgeSuitability) > 0 && !intersects(f.AgeSuitability, e.AgeSuitability) {
		return false
	}

	if len(f.EquipmentAge) > 0 && !contains(f.EquipmentAge, e.EquipmentAge) {
		return false
	}

	if len(f.Condition) > 0 && !contains(f.Condition, e.Condition) {
		return false
	}

	if len(f.City) > 0 && !contains(f.City, e.City) {
		return false
	}

	if f.MinRating > 0 && e.Rating < f.MinRating {
		return false
	}

	return true
}

// Filter returns the equipments matching f, preserving input order.
func Filter(equipments []models.Equipment, f models.Filters) []models.Equipment {
	out := make([]models.Equipment, 0, len(equipments))
	for _, e := range equipments {
		if Matches(e, f) {
			out = append(out, e)
		}
	}
	return out
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, s := range a {
		if contains(b, s) {
			return true
		}
	}
	return false
}
