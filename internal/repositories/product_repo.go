package repositories

import (
	"context"
	"math"

	"catalog/internal/models"
)

// MaxStock is the largest stock level a product can hold. Quantities above
// it are rejected and AddStock refuses to push stock past it.
const MaxStock = math.MaxInt32

// ProductRepository defines the interface for product data access.
//
// Absence is not an error: GetByID returns (nil, nil) and the stock
// mutators return false when no product has the given ID.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	GenerateUniqueID(ctx context.Context) (string, error)
	DecrementStock(ctx context.Context, id string, quantity int) (bool, error)
	AddStock(ctx context.Context, id string, quantity int) (bool, error)
}
