package repositories

import (
	"context"
	"sync"

	"catalog/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// Products are copied on the way in and out, so callers never share state
// with the store.
type MemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products.
func (r *MemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID, or nil when it does not exist.
func (r *MemoryProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &product, nil
}

// Exists reports whether a product with the given ID is stored.
func (r *MemoryProductRepository) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.products[id]
	return ok, nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; ok {
		return ErrConflict
	}
	r.products[product.ID] = *product
	return nil
}

// Update replaces an existing product.
func (r *MemoryProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return ErrNotFound
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID. Deleting a missing product is a no-op.
func (r *MemoryProductRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, id)
	return nil
}

// GenerateUniqueID returns the ID for the next product to insert.
func (r *MemoryProductRepository) GenerateUniqueID(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	last, found := "", false
	for id := range r.products {
		if !found || id > last {
			last, found = id, true
		}
	}
	return NextProductID(last, found), nil
}

// DecrementStock removes quantity units from the product's available stock.
func (r *MemoryProductRepository) DecrementStock(ctx context.Context, id string, quantity int) (bool, error) {
	return r.adjustStock(ctx, id, quantity, func(p *models.Product) bool {
		if p.StockAvailable < quantity {
			return false
		}
		p.StockAvailable -= quantity
		return true
	})
}

// AddStock adds quantity units to the product's available stock.
func (r *MemoryProductRepository) AddStock(ctx context.Context, id string, quantity int) (bool, error) {
	return r.adjustStock(ctx, id, quantity, func(p *models.Product) bool {
		if p.StockAvailable > MaxStock-quantity {
			return false
		}
		p.StockAvailable += quantity
		return true
	})
}

// adjustStock applies mutate under the write lock, so the check and the
// write are atomic with respect to other callers.
func (r *MemoryProductRepository) adjustStock(ctx context.Context, id string, quantity int, mutate func(p *models.Product) bool) (bool, error) {
	if quantity <= 0 || quantity > MaxStock {
		return false, ErrInvalidQuantity
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || !mutate(&product) {
		return false, nil
	}
	r.products[id] = product
	return true, nil
}
