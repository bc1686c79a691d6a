package models

// Result is the rendered outcome of one action
type Result struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}
