package models

import "github.com/shopspring/decimal"

func init() {
	// Prices go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a product in the catalog.
type Product struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name           string          `json:"name" gorm:"type:varchar(100);not null"`
	Description    string          `json:"description" gorm:"type:varchar(500)"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	StockAvailable int             `json:"stockAvailable" gorm:"not null"`
}
