package catalog

import (
	"sort"

	"farmrent/internal/models"
)

// SortOption selects the catalog ordering.
type SortOption string

const (
	SortRelevance SortOption = "relevance"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortNewest    SortOption = "newest"
	SortRating    SortOption = "rating"
)

// ParseSortOption maps a raw query value to a SortOption, defaulting
// to relevance for anything unknown.
func ParseSortOption(raw string) SortOption {
	switch SortOption(raw) {
	case SortPriceAsc, SortPriceDesc, SortNewest, SortRating:
		return SortOption(raw)
	default:
		return SortRelevance
	}
}

// Sort orders the equipments in place. Relevance is a no-op; the other
// options use a stable sort so equal keys keep their relative order.
func Sort(equipments []models.Equipment, option SortOption) {
	switch option {
	case SortPriceAsc:
		sort.SliceStable(equipments, func(i, j int) bool {
			return equipments[i].PricePerDay < equipments[j].PricePerDay
		})
	case SortPriceDesc:
		sort.SliceStable(equipments, func(i, j int) bool {
			return equipments[i].PricePerDay > equipments[j].PricePerDay
		})
	case SortNewest:
		sort.SliceStable(equipments, func(i, j int) bool {
			return equipments[i].Year > equipments[j].Year
		})
	case SortRating:
		sort.SliceStable(equipments, func(i, j int) bool {
			return equipments[i].Rating > equipments[j].Rating
		})
	}
}
