package models

import "time"

// SessionState is the per-user state kept in the state repository:
// who is logged in, their cart and their saved filters. It survives
// client reconnects via the session token but is never shared between
// users.
type SessionState struct {
	Token       string     `json:"token"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Cart        []CartItem `json:"cart"`
	Filters     Filters    `json:"filters"`
	CreatedAt   time.Time  `json:"created_at"`
}
