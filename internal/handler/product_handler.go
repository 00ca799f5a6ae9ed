package handler

import (
	"errors"
	"net/http"
	"strconv"

	"product-aggregator/internal/model"
	"product-aggregator/internal/offersync"
	"product-aggregator/internal/store"
	"product-aggregator/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const productNotFoundMessage = "Product does not exist"

// Handler serves the product REST surface. The storage gateway and the
// syncer are injected by the composition root.
type Handler struct {
	store  store.Gateway
	syncer *offersync.Syncer
}

func New(st store.Gateway, syncer *offersync.Syncer) *Handler {
	return &Handler{store: st, syncer: syncer}
}

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListProducts handles retrieving all products
func (h *Handler) ListProducts(c echo.Context) error {
	log := logger.FromEcho(c)

	products, err := h.store.ListProducts(c.Request().Context())
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Failed to retrieve products",
		})
	}

	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func (h *Handler) GetProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": productNotFoundMessage})
	}

	product, err := h.store.GetProduct(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": productNotFoundMessage})
		}
		log.Error("Failed to get product", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Failed to retrieve product",
		})
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct persists a new product and runs the onboarding flow:
// register with the remote offers source, fetch the initial offers,
// reconcile them in. Only the persisted product is returned; offer
// population is best-effort and never fails the request.
func (h *Handler) CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Invalid request data",
		})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Name of the product is required",
		})
	}
	if req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Description of the product is required",
		})
	}

	product := model.Product{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.store.CreateProduct(c.Request().Context(), &product); err != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Failed to create product",
		})
	}

	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))

	h.syncer.Onboard(c.Request().Context(), product)

	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles a partial update; omitted or empty fields keep their
// prior values.
func (h *Handler) UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": productNotFoundMessage})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Invalid request data",
		})
	}

	var name, description *string
	if req.Name != "" {
		name = &req.Name
	}
	if req.Description != "" {
		description = &req.Description
	}

	product, err := h.store.UpdateProduct(c.Request().Context(), id, name, description)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": productNotFoundMessage})
		}
		log.Error("Failed to update product", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Failed to update product",
		})
	}

	log.Info("Product updated",
		zap.Uint("product_id", id),
		zap.String("name", product.Name))
	return c.JSON(http.StatusResetContent, product)
}

// DeleteProduct removes a product and, through the cascade, all its offers.
func (h *Handler) DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": productNotFoundMessage})
	}

	if err := h.store.DeleteProduct(c.Request().Context(), id); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": productNotFoundMessage})
		}
		log.Error("Failed to delete product", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Failed to delete product",
		})
	}

	log.Info("Product deleted", zap.Uint("product_id", id))
	return c.NoContent(http.StatusNoContent)
}

// non-numeric ids never match a stored product
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
