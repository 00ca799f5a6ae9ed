package handler

import "github.com/labstack/echo/v4"

// Register wires the product REST surface onto the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/products", h.ListProducts)
	e.POST("/products", h.CreateProduct)
	e.GET("/products/:id", h.GetProduct)
	e.PATCH("/products/:id", h.UpdateProduct)
	e.DELETE("/products/:id", h.DeleteProduct)
	e.GET("/products/:id/offers", h.ListOffers)
}
