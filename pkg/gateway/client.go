// Package gateway is a server-to-server client for the payment gateway's confirm endpoint.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrMissingSecret is returned by NewClient when no secret key is configured.
	ErrMissingSecret = errors.New("payment gateway secret key is not configured")
	// ErrNotAuthorized is matched by both RejectedError and UnavailableError.
	ErrNotAuthorized = errors.New("payment not authorized")
)

// RejectedError is a refusal answered by the gateway itself.
type RejectedError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("payment gateway rejected (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrNotAuthorized
}

// UnavailableError means the gateway could not be reached or answered unintelligibly.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("payment gateway unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool {
	return target == ErrNotAuthorized
}

// Config is built once at startup and handed to NewClient.
type Config struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

// ConfirmRequest is the body of the confirm call.
type ConfirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

// Authorization is the gateway's approval of a confirm request.
type Authorization struct {
	PaymentKey  string
	OrderID     string
	TotalAmount int64
	Method      string
	ApprovedAt  time.Time
}

type confirmResponse struct {
	PaymentKey  string `json:"paymentKey"`
	OrderID     string `json:"orderId"`
	TotalAmount int64  `json:"totalAmount"`
	Method      string `json:"method"`
	ApprovedAt  string `json:"approvedAt"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client calls the gateway. It never retries.
type Client struct {
	baseURL   string
	secretKey string
	timeout   time.Duration
}

// NewClient validates cfg and creates a Client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, ErrMissingSecret
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("payment gateway base URL is not configured")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		secretKey: cfg.SecretKey,
		timeout:   timeout,
	}, nil
}

// Confirm asks the gateway to authorize the (payment key, order, amount) triple.
func (c *Client) Confirm(ctx context.Context, req ConfirmRequest) (*Authorization, error) {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, &UnavailableError{Err: context.DeadlineExceeded}
		}
		if remaining < timeout {
			timeout = remaining
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, &UnavailableError{Err: err}
	}

	agent := fiber.Post(c.baseURL + "/payments/confirm")
	agent.BasicAuth(c.secretKey, "")
	agent.JSON(req)
	agent.Timeout(timeout)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, &UnavailableError{Err: errors.Join(errs...)}
	}

	if status < 200 || status > 299 {
		var gwErr errorResponse
		if err := json.Unmarshal(body, &gwErr); err != nil || gwErr.Code == "" {
			gwErr.Code = "UNKNOWN_ERROR"
		}
		if gwErr.Message == "" {
			gwErr.Message = "payment confirmation failed"
		}
		return nil, &RejectedError{StatusCode: status, Code: gwErr.Code, Message: gwErr.Message}
	}

	var resp confirmResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &UnavailableError{Err: fmt.Errorf("decode confirm response: %w", err)}
	}

	auth := &Authorization{
		PaymentKey:  resp.PaymentKey,
		OrderID:     resp.OrderID,
		TotalAmount: resp.TotalAmount,
		Method:      resp.Method,
	}
	if resp.ApprovedAt != "" {
		if t, err := time.Parse(time.RFC3339, resp.ApprovedAt); err == nil {
			auth.ApprovedAt = t
		}
	}
	return auth, nil
}
