package handlers

import (
	"log"

	"checkout/internal/middleware"
	"checkout/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the caller's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Get("/count", h.HandleCount)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// HandleGetCart returns the cart snapshot with totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	snapshot, err := h.service.Snapshot(c.UserContext(), middleware.PrincipalID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"cart":    snapshot,
	})
}

// HandleCount returns the number of lines in the cart.
func (h *CartHandler) HandleCount(c *fiber.Ctx) error {
	count, err := h.service.ItemCount(c.UserContext(), middleware.PrincipalID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   count,
	})
}

// HandleAddItem adds a product to the cart, merging with an existing line.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	req := addItemRequest{Quantity: 1}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add to cart body: %v", err)
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err)
	}

	line, err := h.service.AddItem(c.UserContext(), middleware.PrincipalID(c), req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"item":    line,
		"message": "Added to cart",
	})
}

// HandleUpdateItem changes the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err)
	}

	if err := h.service.UpdateItem(c.UserContext(), middleware.PrincipalID(c), c.Params("id"), req.Quantity); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Quantity updated",
	})
}

// HandleRemoveItem deletes a cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	if err := h.service.RemoveItem(c.UserContext(), middleware.PrincipalID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Removed from cart",
	})
}
