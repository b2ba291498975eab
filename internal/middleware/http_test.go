package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/serroba/shortlink-client/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
})

func TestLogger(t *testing.T) {
	t.Run("logs status, size and method", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		h := middleware.Logger(zap.New(core))(okHandler)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/shortlinks", nil))

		require.Equal(t, 1, logs.Len())

		fields := logs.All()[0].ContextMap()
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/api/shortlinks", fields["uri"])
		assert.EqualValues(t, http.StatusOK, fields["status"])
		assert.EqualValues(t, 2, fields["size"])
	})

	t.Run("records explicit status codes", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		h := middleware.Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/shortlinks", nil))

		assert.EqualValues(t, http.StatusConflict, logs.All()[0].ContextMap()["status"])
	})
}

func TestCORS(t *testing.T) {
	t.Run("no origin means no headers", func(t *testing.T) {
		h := middleware.CORS(middleware.DefaultCORSConfig)(okHandler)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("wildcard origin", func(t *testing.T) {
		h := middleware.CORS(middleware.DefaultCORSConfig)(okHandler)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")

		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("preflight is answered directly", func(t *testing.T) {
		h := middleware.CORS(middleware.DefaultCORSConfig)(okHandler)
		req := httptest.NewRequest(http.MethodOptions, "/api/shortlinks", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("listed origin is echoed", func(t *testing.T) {
		cfg := middleware.DefaultCORSConfig
		cfg.AllowOrigins = []string{"https://app.example.com"}
		h := middleware.CORS(cfg)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")

		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
	})

	t.Run("unlisted origin gets no headers", func(t *testing.T) {
		cfg := middleware.DefaultCORSConfig
		cfg.AllowOrigins = []string{"https://app.example.com"}
		h := middleware.CORS(cfg)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")

		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
