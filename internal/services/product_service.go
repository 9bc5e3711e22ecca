package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/rs/zerolog/log"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidQuantity   = fmt.Errorf("quantity must be between 1 and %d", repositories.MaxStock)
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStockLimit        = fmt.Errorf("stock cannot exceed %d units", repositories.MaxStock)
)

// EventPublisher delivers product events to interested consumers.
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, event models.ProductEvent) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher // optional
	now       func() time.Time
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are published.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	return product, nil
}

// CreateProduct assigns the next ID to product and stores it. Any ID set by
// the caller is overwritten. A duplicate ID caused by a concurrent create
// surfaces as repositories.ErrConflict and is not retried.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	id, err := s.repo.GenerateUniqueID(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate product ID: %w", err)
	}
	product.ID = id

	if err := s.repo.Create(ctx, product); err != nil {
		return err
	}
	s.publish(ctx, models.EventProductCreated, product.ID, product.StockAvailable, 0)
	return nil
}

// UpdateProduct replaces the mutable fields of the product identified by id.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, changes models.Product) error {
	existing, err := s.GetProductByID(ctx, id)
	if err != nil {
		return err
	}

	existing.Name = changes.Name
	existing.Description = changes.Description
	existing.Price = changes.Price
	existing.StockAvailable = changes.StockAvailable

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
		}
		return err
	}
	s.publish(ctx, models.EventProductUpdated, id, existing.StockAvailable, 0)
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, models.EventProductDeleted, id, 0, 0)
	return nil
}

// DecrementStock removes quantity units from a product and returns the
// remaining stock.
func (s *ProductService) DecrementStock(ctx context.Context, id string, quantity int) (int, error) {
	if quantity <= 0 || quantity > repositories.MaxStock {
		return 0, ErrInvalidQuantity
	}
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if quantity > product.StockAvailable {
		return 0, fmt.Errorf("%w for product %s (requested: %d, available: %d)",
			ErrInsufficientStock, id, quantity, product.StockAvailable)
	}

	ok, err := s.repo.DecrementStock(ctx, id, quantity)
	if err != nil {
		return 0, err
	}
	if !ok {
		// Stock changed or the product was deleted after the read above.
		return 0, s.lostRace(ctx, id, ErrInsufficientStock)
	}
	return s.afterAdjustment(ctx, models.EventStockDecremented, id, quantity)
}

// AddStock adds quantity units to a product and returns the new stock.
func (s *ProductService) AddStock(ctx context.Context, id string, quantity int) (int, error) {
	if quantity <= 0 || quantity > repositories.MaxStock {
		return 0, ErrInvalidQuantity
	}
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if product.StockAvailable > repositories.MaxStock-quantity {
		return 0, fmt.Errorf("%w for product %s (requested: %d, available: %d)",
			ErrStockLimit, id, quantity, product.StockAvailable)
	}

	ok, err := s.repo.AddStock(ctx, id, quantity)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, s.lostRace(ctx, id, ErrStockLimit)
	}
	return s.afterAdjustment(ctx, models.EventStockAdded, id, quantity)
}

// lostRace explains a stock write that changed no row: either the product
// was deleted or the guard rejected the concurrently changed stock.
func (s *ProductService) lostRace(ctx context.Context, id string, guardErr error) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	return fmt.Errorf("%w for product %s", guardErr, id)
}

// afterAdjustment re-reads the product so the caller sees the committed
// stock level, then publishes the event.
func (s *ProductService) afterAdjustment(ctx context.Context, eventType, id string, quantity int) (int, error) {
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, eventType, id, product.StockAvailable, quantity)
	return product.StockAvailable, nil
}

func (s *ProductService) publish(ctx context.Context, eventType, id string, stock, quantity int) {
	if s.publisher == nil {
		return
	}
	event := models.ProductEvent{
		Type:           eventType,
		ProductID:      id,
		StockAvailable: stock,
		Quantity:       quantity,
		OccurredAt:     s.now().UTC(),
	}
	if err := s.publisher.PublishProductEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("event", eventType).Str("product_id", id).Msg("failed to publish product event")
	}
}
