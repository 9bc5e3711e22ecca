package handlers

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const internalErrorMessage = "Internal server error."

// ProductRequest is the request body for creating or updating a product.
type ProductRequest struct {
	Name           string          `json:"name" validate:"required,max=100"`
	Description    string          `json:"description" validate:"max=500"`
	Price          decimal.Decimal `json:"price" validate:"gte=0.01,lte=100000"`
	StockAvailable int             `json:"stockAvailable" validate:"gte=0,lte=2147483647"`
}

func (r ProductRequest) toModel() models.Product {
	return models.Product{
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		StockAvailable: r.StockAvailable,
	}
}

var validationMessages = map[string]string{
	"Name":           "Product name is required and cannot exceed 100 characters.",
	"Description":    "Product description cannot exceed 500 characters.",
	"Price":          "Price must be between 0.01 and 100000 with at most two decimal places.",
	"StockAvailable": "Stock available must be between 0 and 2147483647.",
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	timeout  time.Duration
}

// NewProductHandler creates a new ProductHandler. Each request's repository
// calls share a deadline of timeout.
func NewProductHandler(service *services.ProductService, timeout time.Duration) *ProductHandler {
	validate := validator.New()
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return &ProductHandler{
		service:  service,
		validate: validate,
		timeout:  timeout,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/decrement-stock/:id/:quantity", h.HandleDecrementStock)
	productRoutes.Put("/add-to-stock/:id/:quantity", h.HandleAddStock)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	products, err := h.service.GetAllProducts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error getting all products")
		return internalError(c)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	productID := c.Params("id")
	product, err := h.service.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return notFound(c, productID)
		}
		log.Error().Err(err).Str("product_id", productID).Msg("error getting product")
		return internalError(c)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product with a generated ID.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if problem, ok := h.parseProductRequest(c, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	product := req.toModel()
	if err := h.service.CreateProduct(ctx, &product); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			log.Warn().Err(err).Msg("product ID collision")
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "A product with the generated ID already exists, please retry.",
			})
		}
		log.Error().Err(err).Msg("error creating product")
		return internalError(c)
	}

	c.Location(fmt.Sprintf("%s/%s", strings.TrimSuffix(c.Path(), "/"), product.ID))
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces the fields of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if problem, ok := h.parseProductRequest(c, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	productID := c.Params("id")
	if err := h.service.UpdateProduct(ctx, productID, req.toModel()); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return notFound(c, productID)
		}
		log.Error().Err(err).Str("product_id", productID).Msg("error updating product")
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	productID := c.Params("id")
	if err := h.service.DeleteProduct(ctx, productID); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return notFound(c, productID)
		}
		log.Error().Err(err).Str("product_id", productID).Msg("error deleting product")
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDecrementStock removes units from a product's available stock.
func (h *ProductHandler) HandleDecrementStock(c *fiber.Ctx) error {
	return h.handleStockAdjustment(c, h.service.DecrementStock, "decremented")
}

// HandleAddStock adds units to a product's available stock.
func (h *ProductHandler) HandleAddStock(c *fiber.Ctx) error {
	return h.handleStockAdjustment(c, h.service.AddStock, "increased")
}

type stockAdjustment func(ctx context.Context, id string, quantity int) (int, error)

func (h *ProductHandler) handleStockAdjustment(c *fiber.Ctx, adjust stockAdjustment, verb string) error {
	productID := c.Params("id")
	quantity, err := c.ParamsInt("quantity")
	if err != nil || quantity <= 0 || quantity > repositories.MaxStock {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Quantity must be an integer between 1 and %d.", repositories.MaxStock),
		})
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	stock, err := adjust(ctx, productID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			return notFound(c, productID)
		case errors.Is(err, services.ErrInvalidQuantity),
			errors.Is(err, services.ErrInsufficientStock),
			errors.Is(err, services.ErrStockLimit):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Stock adjustment failed",
				"error":   err.Error(),
			})
		}
		log.Error().Err(err).Str("product_id", productID).Int("quantity", quantity).Msg("error adjusting stock")
		return internalError(c)
	}

	log.Info().Str("product_id", productID).Int("quantity", quantity).Int("stock_available", stock).Msgf("stock %s", verb)
	return c.JSON(fiber.Map{
		"message":        fmt.Sprintf("Stock for product '%s' %s by %d. New stock: %d.", productID, verb, quantity, stock),
		"stockAvailable": stock,
	})
}

// parseProductRequest binds and validates the body into req. When it
// returns false, the map describes the problem for a 400 response.
func (h *ProductHandler) parseProductRequest(c *fiber.Ctx, req *ProductRequest) (fiber.Map, bool) {
	if err := c.BodyParser(req); err != nil {
		log.Debug().Err(err).Msg("invalid product request body")
		return fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		}, false
	}

	errorMessages := make(map[string]string)
	if err := h.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fiber.Map{"message": "Validation failed", "error": err.Error()}, false
		}
		for _, e := range validationErrors {
			msg, ok := validationMessages[e.Field()]
			if !ok {
				msg = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
			}
			errorMessages[e.Field()] = msg
		}
	}
	// The tags see the price as a float64, so precision is checked on the decimal.
	if !req.Price.Equal(req.Price.Truncate(2)) {
		errorMessages["Price"] = validationMessages["Price"]
	}
	if len(errorMessages) == 0 {
		return nil, true
	}
	return fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	}, false
}

func (h *ProductHandler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.timeout)
}

func notFound(c *fiber.Ctx, productID string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": fmt.Sprintf("Product with ID '%s' not found.", productID),
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": internalErrorMessage,
	})
}
