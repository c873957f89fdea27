package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("generates when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get("X-Request-ID")
		assert.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("honors incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "req-123", w.Body.String())
	})

	t.Run("ids are unique", func(t *testing.T) {
		w1 := httptest.NewRecorder()
		w2 := httptest.NewRecorder()
		r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/", nil))
		r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEqual(t, w1.Body.String(), w2.Body.String())
	})
}

func TestCORSWithConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(cfg CORSConfig) *gin.Engine {
		r := gin.New()
		r.Use(CORSWithConfig(cfg))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("allowed origin echoed", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"https://shop.example.com"}
		r := newRouter(cfg)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://shop.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin gets no header", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"https://shop.example.com"}
		r := newRouter(cfg)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"*"}
		r := newRouter(cfg)

		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://anywhere.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), SessionKeyHeader)
	})
}
