// internal/models/menu.go
package models

// MenuItem is one orderable item. Price is a non-negative decimal.
type MenuItem struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}
