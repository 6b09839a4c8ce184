package models

// Worker is a hireable farm worker.
type Worker struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Skill     string `json:"skill"`
	Available bool   `json:"available"`
}
