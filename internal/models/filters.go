package models

// Filters describes the catalog filter conjunction. The zero value
// places no restriction on any field.
type Filters struct {
	SearchQuery    string   `json:"searchQuery,omitempty"`
	Category       []string `json:"category,omitempty"`
	PriceMin       float64  `json:"priceMin,omitempty"`
	PriceMax       float64  `json:"priceMax,omitempty"` // <= 0 means unbounded
	AgeSuitability []string `json:"ageSuitability,omitempty"`
	EquipmentAge   []string `json:"equipmentAge,omitempty"`
	Condition      []string `json:"condition,omitempty"`
	City           []string `json:"city,omitempty"`
	MinRating      float64  `json:"minRating,omitempty"` // 0 disables
}
