package models

// Farmer is an authenticated marketplace user. Credentials live behind
// the Authenticator capability; this is the public part only.
type Farmer struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}
