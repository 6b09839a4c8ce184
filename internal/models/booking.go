package models

// Booking references an equipment or worker record by kind+id.
// ItemName is a snapshot of the referenced item's name taken at
// creation time; it is never refreshed if the item is renamed.
// Dates are YYYY-MM-DD strings, validated at the API boundary.
type Booking struct {
	ID             int64  `json:"id"`
	Kind           string `json:"kind"`
	ItemID         int64  `json:"itemId"`
	ItemName       string `json:"itemName"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	FarmerUsername string `json:"farmerUsername"`
	Status         string `json:"status"`
}
