package handlers

import (
	"errors"
	"fmt"
	"log"

	"checkout/internal/services"
	"checkout/pkg/gateway"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// writeError renders err as {success:false, error, errorCode?} with the matching status.
// Messages are short and never carry store internals.
func writeError(c *fiber.Ctx, err error) error {
	status, body := describeError(err)
	if status >= fiber.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(body)
}

func describeError(err error) (int, fiber.Map) {
	var (
		validationErr *services.ValidationError
		stockErr      *services.InsufficientStockError
		unavailErr    *services.ProductUnavailableError
		creationErr   *services.OrderCreationError
		mismatchErr   *services.AmountMismatchError
		finalizedErr  *services.OrderAlreadyFinalizedError
		rejectedErr   *gateway.RejectedError
		gatewayDown   *gateway.UnavailableError
		dataErr       *services.DataAccessError
	)

	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return fiber.StatusUnauthorized, failure("Authentication required")
	case errors.As(err, &validationErr):
		body := failure("Validation failed")
		body["errors"] = validationErr.Fields
		return fiber.StatusBadRequest, body
	case errors.Is(err, services.ErrInvalidQuantity):
		return fiber.StatusBadRequest, failure("Quantity must be at least 1")
	case errors.Is(err, services.ErrEmptyCart):
		return fiber.StatusBadRequest, failure("Your cart is empty")
	case errors.As(err, &stockErr):
		body := failure(fmt.Sprintf("Not enough stock for %s (available: %d)", stockErr.ProductName, stockErr.Available))
		body["errorCode"] = "INSUFFICIENT_STOCK"
		body["available"] = stockErr.Available
		return fiber.StatusConflict, body
	case errors.As(err, &unavailErr):
		body := failure(fmt.Sprintf("%s is no longer available", unavailErr.ProductName))
		body["errorCode"] = "PRODUCT_UNAVAILABLE"
		return fiber.StatusConflict, body
	case errors.Is(err, services.ErrProductNotFound):
		return fiber.StatusNotFound, failure("Product not found")
	case errors.Is(err, services.ErrCartItemNotFound):
		return fiber.StatusNotFound, failure("Cart item not found")
	case errors.Is(err, services.ErrOrderNotFound):
		return fiber.StatusNotFound, failure("Order not found")
	case errors.Is(err, services.ErrOrderInProgress):
		body := failure("An order is already being placed, please wait")
		body["errorCode"] = "ORDER_IN_PROGRESS"
		return fiber.StatusConflict, body
	case errors.Is(err, services.ErrPaymentInProgress):
		body := failure("Payment is already being confirmed, please wait")
		body["errorCode"] = "PAYMENT_IN_PROGRESS"
		return fiber.StatusConflict, body
	case errors.As(err, &creationErr):
		return fiber.StatusInternalServerError, failure("Could not create the order, please try again")
	case errors.As(err, &mismatchErr):
		body := failure("Payment amount does not match the order total")
		body["errorCode"] = "AMOUNT_MISMATCH"
		return fiber.StatusBadRequest, body
	case errors.As(err, &finalizedErr):
		body := failure(fmt.Sprintf("Order is already %s", finalizedErr.Status))
		body["errorCode"] = "ORDER_ALREADY_FINALIZED"
		body["status"] = finalizedErr.Status
		return fiber.StatusConflict, body
	case errors.Is(err, services.ErrGatewayNotConfigured):
		return fiber.StatusInternalServerError, failure("Payment server configuration error")
	case errors.As(err, &rejectedErr):
		body := failure(rejectedErr.Message)
		body["errorCode"] = rejectedErr.Code
		status := rejectedErr.StatusCode
		if status < 400 {
			status = fiber.StatusPaymentRequired
		}
		return status, body
	case errors.As(err, &gatewayDown):
		body := failure("Payment gateway is unavailable, please retry")
		body["errorCode"] = "GATEWAY_UNAVAILABLE"
		return fiber.StatusBadGateway, body
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, failure("Invalid credentials")
	case errors.Is(err, services.ErrUserExists):
		return fiber.StatusConflict, failure("Username or email is already registered")
	case errors.As(err, &dataErr):
		return fiber.StatusInternalServerError, failure("Something went wrong, please try again later")
	default:
		return fiber.StatusInternalServerError, failure("An unexpected error occurred")
	}
}

func failure(message string) fiber.Map {
	return fiber.Map{
		"success": false,
		"error":   message,
	}
}

// badRequest answers a malformed body or failed struct validation.
func badRequest(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		body := failure("Validation failed")
		body["errors"] = fields
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}
	return c.Status(fiber.StatusBadRequest).JSON(failure("Invalid request body"))
}

// ErrorHandler renders errors that escape a handler, including recovered panics.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(failure(fe.Message))
	}
	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(failure("An unexpected error occurred"))
}
