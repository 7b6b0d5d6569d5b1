// internal/models/franchise.go
package models

// Franchise owns a set of admin users and a set of stores. Admins carry only
// id/name/email; Stores carry aggregated revenue when fetched with full
// detail.
type Franchise struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Admins []User  `json:"admins,omitempty"`
	Stores []Store `json:"stores,omitempty"`
}

// Store is one location of a franchise. TotalRevenue is the sum of order-item
// prices attributed to the store, zero when no orders exist.
type Store struct {
	ID           int64   `json:"id"`
	FranchiseID  int64   `json:"franchiseId,omitempty"`
	Name         string  `json:"name"`
	TotalRevenue float64 `json:"totalRevenue,omitempty"`
}
