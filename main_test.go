package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"checkout/internal/locks"
	"checkout/internal/metrics"
	"checkout/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestApp(t *testing.T) (*Services, *metrics.Metrics) {
	t.Helper()
	db, err := openDatabase("sqlite", "file:"+uuid.New().String()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	m := metrics.New()
	svc := NewServices(Wiring{
		DB:           db,
		JWTSecret:    "test_jwt_secret",
		Locker:       locks.NewMemoryLocker(),
		OrderLockTTL: time.Second,
		Metrics:      m,
	})
	return &svc, m
}

func TestServerHealthAndMetrics(t *testing.T) {
	svc, m := newTestApp(t)
	app := NewApp(*svc, m)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"healthy"`)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "checkout_http_requests_total")
}

func TestSeedProductsIsIdempotent(t *testing.T) {
	db, err := openDatabase("sqlite", "file:"+uuid.New().String()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, migrate(db))
	repo := repositories.NewGORMProductRepository(db)

	seedProducts(repo)
	seedProducts(repo)

	products, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestOpenDatabaseRejectsUnknownDriver(t *testing.T) {
	_, err := openDatabase("oracle", "")
	assert.Error(t, err)
}

func TestNewLockerFallsBackToMemory(t *testing.T) {
	_, ok := newLocker("").(*locks.MemoryLocker)
	assert.True(t, ok)

	_, ok = newLocker("not a url").(*locks.MemoryLocker)
	assert.True(t, ok)
}
