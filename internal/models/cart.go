package models

// CartProduct is the minimal item snapshot kept inside a cart entry.
type CartProduct struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	PricePerDay float64 `json:"pricePerDay"`
}

// CartItem is one line of a cart, keyed by Item.ID.
type CartItem struct {
	Item      CartProduct `json:"item"`
	Quantity  int         `json:"quantity"`
	StartDate string      `json:"startDate"`
	EndDate   string      `json:"endDate"`
}
