package models

import "time"

// Product event types published after a successful mutation.
const (
	EventProductCreated   = "product.created"
	EventProductUpdated   = "product.updated"
	EventProductDeleted   = "product.deleted"
	EventStockDecremented = "product.stock_decremented"
	EventStockAdded       = "product.stock_added"
)

// ProductEvent describes a change to a product record.
type ProductEvent struct {
	Type           string    `json:"type"`
	ProductID      string    `json:"product_id"`
	StockAvailable int       `json:"stock_available"`
	Quantity       int       `json:"quantity,omitempty"` // only set for stock adjustments
	OccurredAt     time.Time `json:"occurred_at"`
}
