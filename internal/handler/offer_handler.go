package handler

import (
	"errors"
	"fmt"
	"net/http"

	"product-aggregator/internal/store"
	"product-aggregator/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListOffers handles retrieving all offers of one product
func (h *Handler) ListOffers(c echo.Context) error {
	log := logger.FromEcho(c)

	raw := c.Param("id")
	id, ok := parseID(raw)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{
			"message": fmt.Sprintf("Product with id %s does not exist", raw),
		})
	}

	offers, err := h.store.ListOffers(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"message": fmt.Sprintf("Product with id %d does not exist", id),
			})
		}
		log.Error("Failed to list offers", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Failed to retrieve offers",
		})
	}

	return c.JSON(http.StatusOK, offers)
}
