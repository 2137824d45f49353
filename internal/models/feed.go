package models

import "time"

// OrderStatus represents the possible states of a submitted order
type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPending OrderStatus = "pending"
	OrderStatusDone    OrderStatus = "done"
)

// Valid reports whether the status belongs to the closed set.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusPending, OrderStatusDone:
		return true
	}
	return false
}

// FeedOrder is an immutable snapshot of a historical order from the feed.
// Ingredients holds catalog ids and is not resolved against the catalog.
type FeedOrder struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Status      OrderStatus `json:"status"`
	Ingredients []string    `json:"ingredients"`
	Number      int         `json:"number"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// FeedSnapshot is the payload of one feed fetch.
type FeedSnapshot struct {
	Orders     []FeedOrder `json:"orders"`
	Total      int         `json:"total"`
	TotalToday int         `json:"totalToday"`
}

// OrderConfirmation is returned by the order submission collaborator.
type OrderConfirmation struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
}
