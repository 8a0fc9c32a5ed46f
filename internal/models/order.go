package models

// Order is a customer order with the number of bags it ships.
type Order struct {
	ID       string `json:"id"`
	BagCount int    `json:"bag_count"`
}
