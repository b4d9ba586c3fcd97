package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL + "/v1", SecretKey: "test_sk", Timeout: time.Second})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresSecret(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "http://gateway.local", SecretKey: " "})
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewClient(Config{SecretKey: "sk"})
	assert.Error(t, err)
}

func TestConfirm_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments/confirm", r.URL.Path)
		expectedAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("test_sk:"))
		assert.Equal(t, expectedAuth, r.Header.Get("Authorization"))

		var body ConfirmRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, ConfirmRequest{PaymentKey: "pk_1", OrderID: "order-1", Amount: 20000}, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"paymentKey":"pk_1","orderId":"order-1","totalAmount":20000,"method":"card","approvedAt":"2024-05-01T10:00:00+09:00"}`))
	})

	auth, err := client.Confirm(context.Background(), ConfirmRequest{PaymentKey: "pk_1", OrderID: "order-1", Amount: 20000})
	require.NoError(t, err)
	assert.Equal(t, "pk_1", auth.PaymentKey)
	assert.Equal(t, "order-1", auth.OrderID)
	assert.Equal(t, int64(20000), auth.TotalAmount)
	assert.Equal(t, "card", auth.Method)
	assert.False(t, auth.ApprovedAt.IsZero())
}

func TestConfirm_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"code":"REJECTED","message":"card declined"}`))
	})

	_, err := client.Confirm(context.Background(), ConfirmRequest{PaymentKey: "pk", OrderID: "o", Amount: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, http.StatusPaymentRequired, rejected.StatusCode)
	assert.Equal(t, "REJECTED", rejected.Code)
	assert.Equal(t, "card declined", rejected.Message)
}

func TestConfirm_RejectedWithoutBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.Confirm(context.Background(), ConfirmRequest{PaymentKey: "pk", OrderID: "o", Amount: 1})
	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "UNKNOWN_ERROR", rejected.Code)
	assert.NotEmpty(t, rejected.Message)
}

func TestConfirm_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})
	client.timeout = 50 * time.Millisecond

	_, err := client.Confirm(context.Background(), ConfirmRequest{PaymentKey: "pk", OrderID: "o", Amount: 1})
	var unavailable *UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestConfirm_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: url, SecretKey: "sk", Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Confirm(context.Background(), ConfirmRequest{PaymentKey: "pk", OrderID: "o", Amount: 1})
	var unavailable *UnavailableError
	assert.True(t, errors.As(err, &unavailable))
}

func TestConfirm_ExpiredContextSkipsCall(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := client.Confirm(ctx, ConfirmRequest{PaymentKey: "pk", OrderID: "o", Amount: 1})
	var unavailable *UnavailableError
	assert.True(t, errors.As(err, &unavailable))
	assert.False(t, called)
}
