package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestBodyLimit(t *testing.T) {
	engine := gin.New()
	engine.Use(BodyLimit(100))
	engine.POST("/lines", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	t.Run("allows body within limit", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodPost, "/lines", strings.NewReader("small")))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects declared oversize body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/lines", strings.NewReader(strings.Repeat("x", 200)))
		w := serve(engine, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	t.Run("generates an id", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/id", nil))
		_, err := uuid.Parse(w.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
	})

	t.Run("reuses the caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		w := serve(engine, req)
		assert.Equal(t, "req-42", w.Body.String())
	})

	t.Run("replaces an oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", maxRequestIDLength+1))
		w := serve(engine, req)
		assert.NotEqual(t, strings.Repeat("a", maxRequestIDLength+1), w.Body.String())
	})
}

func TestTenant(t *testing.T) {
	defaultTenant := uuid.New()
	engine := gin.New()
	engine.Use(RequestID(), Tenant(defaultTenant))
	engine.GET("/tenant", func(c *gin.Context) { c.String(http.StatusOK, GetTenantID(c).String()) })

	t.Run("falls back to the default tenant", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/tenant", nil))
		assert.Equal(t, defaultTenant.String(), w.Body.String())
	})

	t.Run("uses the header tenant", func(t *testing.T) {
		tenant := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/tenant", nil)
		req.Header.Set(TenantHeader, tenant.String())
		w := serve(engine, req)
		assert.Equal(t, tenant.String(), w.Body.String())
	})

	t.Run("rejects a malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tenant", nil)
		req.Header.Set(TenantHeader, "company-1")
		w := serve(engine, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TENANT")
	})

	t.Run("GetTenantID without middleware", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.Equal(t, uuid.Nil, GetTenantID(c))
	})
}

type fakeStore struct {
	mu   sync.Mutex
	keys map[string]bool
	err  error
}

func newFakeStore() *fakeStore { return &fakeStore{keys: map[string]bool{}} }

func (s *fakeStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *fakeStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key], s.err
}

func (s *fakeStore) Forget(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

func (s *fakeStore) Close() error { return nil }

func TestIdempotency(t *testing.T) {
	newEngine := func(store *fakeStore, status *int) *gin.Engine {
		engine := gin.New()
		engine.Use(RequestID(), Tenant(uuid.New()))
		engine.POST("/lines/:id/confirm", Idempotency(store, time.Hour), func(c *gin.Context) {
			c.Status(*status)
		})
		return engine
	}
	request := func(key string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/lines/1/confirm", nil)
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		return req
	}

	t.Run("repeated key is a conflict", func(t *testing.T) {
		status := http.StatusOK
		engine := newEngine(newFakeStore(), &status)
		assert.Equal(t, http.StatusOK, serve(engine, request("k1")).Code)

		w := serve(engine, request("k1"))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "DUPLICATE_REQUEST")
	})

	t.Run("requests without a key pass", func(t *testing.T) {
		status := http.StatusOK
		engine := newEngine(newFakeStore(), &status)
		assert.Equal(t, http.StatusOK, serve(engine, request("")).Code)
		assert.Equal(t, http.StatusOK, serve(engine, request("")).Code)
	})

	t.Run("failed request releases its key", func(t *testing.T) {
		status := http.StatusUnprocessableEntity
		engine := newEngine(newFakeStore(), &status)
		assert.Equal(t, http.StatusUnprocessableEntity, serve(engine, request("k2")).Code)

		status = http.StatusOK
		assert.Equal(t, http.StatusOK, serve(engine, request("k2")).Code)
	})

	t.Run("store failure lets the request through", func(t *testing.T) {
		store := newFakeStore()
		store.err = errors.New("redis down")
		status := http.StatusOK
		engine := newEngine(store, &status)
		assert.Equal(t, http.StatusOK, serve(engine, request("k3")).Code)
	})

	t.Run("oversized key is rejected", func(t *testing.T) {
		status := http.StatusOK
		engine := newEngine(newFakeStore(), &status)
		w := serve(engine, request(strings.Repeat("k", maxIdempotencyKeyLength+1)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestValidation(t *testing.T) {
	SetupValidator()

	type lineRequest struct {
		Quantity  decimal.Decimal `json:"quantity" binding:"decimal_gte0"`
		Direction string          `json:"direction" binding:"required,oneof=in out"`
	}

	bind := func(body string) error {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		var req lineRequest
		return c.ShouldBindJSON(&req)
	}

	assert.NoError(t, bind(`{"quantity":"12.5","direction":"out"}`))

	err := bind(`{"quantity":"-1","direction":"sideways"}`)
	require.Error(t, err)
	details := ValidationDetails(err)
	require.Len(t, details, 2)
	assert.Equal(t, "quantity", details[0].Field)
	assert.Equal(t, "Must not be negative", details[0].Message)
	assert.Equal(t, "direction", details[1].Field)
	assert.Equal(t, "Must be one of: in out", details[1].Message)

	assert.Empty(t, ValidationDetails(errors.New("not a validation error")))
}

func TestProfiling(t *testing.T) {
	tenant := uuid.New()
	engine := gin.New()
	engine.Use(Tenant(tenant), Profiling("/health"))

	var labels map[string]string
	capture := func(c *gin.Context) {
		labels = map[string]string{}
		pprof.ForLabels(c.Request.Context(), func(k, v string) bool {
			labels[k] = v
			return true
		})
		c.Status(http.StatusOK)
	}
	engine.POST("/api/v1/movement-lines/:id/confirm", capture)
	engine.GET("/health", capture)

	serve(engine, httptest.NewRequest(http.MethodPost, "/api/v1/movement-lines/42/confirm", nil))
	assert.Equal(t, "/api/v1/movement-lines/:id/confirm", labels["route"])
	assert.Equal(t, http.MethodPost, labels["method"])
	assert.Equal(t, "movement-lines", labels["resource"])
	assert.Equal(t, tenant.String(), labels["tenant_id"])

	serve(engine, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, labels)
}

func TestResourceFromRoute(t *testing.T) {
	assert.Equal(t, "goods", resourceFromRoute("/api/v1/goods/:id"))
	assert.Equal(t, "health", resourceFromRoute("/health"))
	assert.Equal(t, "", resourceFromRoute(""))
}
