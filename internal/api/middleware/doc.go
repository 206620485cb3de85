// Package middleware holds the HTTP middleware of the API: bearer-token
// authentication, request tracing, CORS and per-IP rate limiting.
package middleware
