package models

// Equipment is a rentable machine in the catalog. Only ID, Name and
// Available are guaranteed to be set; the merchandising fields are
// optional and feed the catalog filter/sort pipeline.
type Equipment struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Available      bool     `json:"available"`
	Category       string   `json:"category,omitempty"`
	PricePerDay    float64  `json:"pricePerDay,omitempty"`
	Rating         float64  `json:"rating,omitempty"`
	City           string   `json:"city,omitempty"`
	Condition      string   `json:"condition,omitempty"`
	EquipmentAge   string   `json:"equipmentAge,omitempty"`
	AgeSuitability []string `json:"ageSuitability,omitempty"`
	Year           int      `json:"year,omitempty"`
	Brand          string   `json:"brand,omitempty"`
}
