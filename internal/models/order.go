// internal/models/order.go
package models

import "time"

// OrderItem is one line of a diner order. MenuID must reference an existing
// menu item; the store enforces this by lookup before insert.
type OrderItem struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"orderId,omitempty"`
	MenuID      int64   `json:"menuId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Order is an order header plus its items.
type Order struct {
	ID          int64       `json:"id"`
	DinerID     int64       `json:"dinerId,omitempty"`
	FranchiseID int64       `json:"franchiseId"`
	StoreID     int64       `json:"storeId"`
	Date        time.Time   `json:"date,omitempty"`
	Items       []OrderItem `json:"items"`
}

// OrderPage is one page of a diner's order history.
type OrderPage struct {
	DinerID int64   `json:"dinerId"`
	Orders  []Order `json:"orders"`
	Page    int     `json:"page"`
}
