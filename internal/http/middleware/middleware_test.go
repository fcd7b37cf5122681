package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptc/internal/config"
	"github.com/davidbz/promptc/internal/http/middleware"
	"github.com/davidbz/promptc/internal/observability"
)

func TestChain(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := middleware.Chain(tag("first"), tag("second"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestTrace(t *testing.T) {
	t.Run("should inject ids into context and headers", func(t *testing.T) {
		var requestID string
		handler := middleware.Trace()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID = observability.GetRequestID(r.Context())
			w.WriteHeader(http.StatusTeapot)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusTeapot, w.Code)
		require.NotEmpty(t, requestID)
		require.Equal(t, requestID, w.Header().Get("X-Request-Id"))
		require.Len(t, requestID, 36)
	})

	t.Run("should keep a caller supplied request id", func(t *testing.T) {
		handler := middleware.Trace()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-Id", "req-42")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, "req-42", w.Header().Get("X-Request-Id"))
	})
}

func TestRecover(t *testing.T) {
	handler := middleware.Recover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCORS(t *testing.T) {
	t.Run("should answer preflight requests", func(t *testing.T) {
		handler := middleware.CORS(&config.CORSConfig{
			AllowedOrigins: []string{"https://example.com"},
			AllowedMethods: []string{http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         60,
		})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		req := httptest.NewRequest(http.MethodOptions, "/v1/prompts/Haiku/compile", nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("should pass through without config", func(t *testing.T) {
		called := false
		handler := middleware.CORS(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		require.True(t, called)
	})
}
