package handlers

import (
	"log"

	"checkout/internal/middleware"
	"checkout/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles the server-side payment confirmation call.
type PaymentHandler struct {
	service  *services.PaymentService
	validate *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Post("/confirm", h.HandleConfirm)
}

// ConfirmRequest is the body the buyer's client posts after the gateway redirect.
type ConfirmRequest struct {
	PaymentKey string `json:"paymentKey" validate:"required"`
	OrderID    string `json:"orderId" validate:"required"`
	Amount     int64  `json:"amount" validate:"required"`
}

// HandleConfirm confirms a payment with the gateway and reconciles the order status.
func (h *PaymentHandler) HandleConfirm(c *fiber.Ctx) error {
	ownerID := middleware.PrincipalID(c)
	if ownerID == "" {
		return writeError(c, services.ErrUnauthenticated)
	}

	var req ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing payment confirm body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(failure("Missing required parameters"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(failure("Missing required parameters"))
	}

	auth, err := h.service.Confirm(c.UserContext(), ownerID, services.ConfirmPaymentRequest{
		PaymentKey: req.PaymentKey,
		OrderID:    req.OrderID,
		Amount:     req.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"paymentKey": auth.PaymentKey,
		"orderId":    auth.OrderID,
		"amount":     auth.Amount,
		"method":     auth.Method,
	})
}
