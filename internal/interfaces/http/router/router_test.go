package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("moves", "/moves")
		assert.Equal(t, "moves", g.Name())
		assert.Equal(t, "/moves", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g.GET("/r", ok).POST("/r", ok).PUT("/r", ok).DELETE("/r", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(method, "/api/v1/test/r", nil))
			assert.Equal(t, http.StatusOK, w.Code, method)
		}
	})

	t.Run("applies group middleware and subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("outer", "/outer")
		g.Use(func(c *gin.Context) {
			c.Header("X-Group", "outer")
			c.Next()
		})
		g.Group("inner", "/inner").GET("/x", func(c *gin.Context) {
			c.String(http.StatusOK, "inner")
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/outer/inner/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "outer", w.Header().Get("X-Group"))
		assert.Equal(t, "inner", w.Body.String())
	})
}
