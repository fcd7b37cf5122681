// Package middleware holds the HTTP wrappers applied around every route.
package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/davidbz/promptc/internal/config"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain composes middlewares; the first one sees the request first.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := range middlewares {
			final = middlewares[len(middlewares)-1-i](final)
		}
		return final
	}
}

// BuildMiddlewareChain is the server's chain: CORS, Trace, then Recover, so a
// recovered panic is logged with its request ID.
func BuildMiddlewareChain(corsConfig *config.CORSConfig) Middleware {
	return Chain(CORS(corsConfig), Trace(), Recover())
}

// CORS answers preflight requests and exposes X-Request-Id to browsers.
// A nil config disables it.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}).Handler
}
