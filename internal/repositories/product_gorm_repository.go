package repositories

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// The *gorm.DB must be opened with TranslateError enabled so duplicate keys
// surface as gorm.ErrDuplicatedKey.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Take(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Exists reports whether a product with the given ID is stored.
func (r *GORMProductRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check product %s: %w", id, err)
	}
	return count > 0, nil
}

// Create inserts a new product. The ID must already be assigned.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to create product %s: %w", product.ID, ErrConflict)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces every mutable column of the product identified by product.ID.
// It never inserts.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":            product.Name,
			"description":     product.Description,
			"price":           product.Price,
			"stock_available": product.StockAvailable,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a product by its ID. Deleting a missing product is a no-op.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// GenerateUniqueID returns the ID for the next product to insert.
// Concurrent callers may receive the same ID; the primary key rejects the
// second insert with ErrConflict.
func (r *GORMProductRepository) GenerateUniqueID(ctx context.Context) (string, error) {
	var last models.Product
	err := r.db.WithContext(ctx).Order("id DESC").Take(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NextProductID("", false), nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read last product ID: %w", err)
	}
	return NextProductID(last.ID, true), nil
}

// DecrementStock removes quantity units from the product's available stock.
// It returns false when the product does not exist or holds fewer than
// quantity units.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id string, quantity int) (bool, error) {
	if quantity <= 0 || quantity > MaxStock {
		return false, ErrInvalidQuantity
	}
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if product == nil || product.StockAvailable < quantity {
		return false, nil
	}

	// The guard is repeated in the UPDATE so a concurrent decrement between
	// the read above and this write can never drive stock below zero.
	return r.adjustStock(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&models.Product{}).
			Where("id = ? AND stock_available >= ?", id, quantity).
			Update("stock_available", gorm.Expr("stock_available - ?", quantity))
	})
}

// AddStock adds quantity units to the product's available stock.
// It returns false when the product does not exist or the result would
// exceed MaxStock.
func (r *GORMProductRepository) AddStock(ctx context.Context, id string, quantity int) (bool, error) {
	if quantity <= 0 || quantity > MaxStock {
		return false, ErrInvalidQuantity
	}
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if product == nil || product.StockAvailable > MaxStock-quantity {
		return false, nil
	}

	return r.adjustStock(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&models.Product{}).
			Where("id = ? AND stock_available <= ?", id, MaxStock-quantity).
			Update("stock_available", gorm.Expr("stock_available + ?", quantity))
	})
}

// adjustStock runs write inside a transaction. Any error, panic or context
// cancellation rolls the transaction back before the error is returned.
func (r *GORMProductRepository) adjustStock(ctx context.Context, write func(tx *gorm.DB) *gorm.DB) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := write(tx)
		if res.Error != nil {
			return res.Error
		}
		applied = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to adjust stock: %w", err)
	}
	return applied, nil
}
