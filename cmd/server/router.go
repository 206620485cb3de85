package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/places-api/internal/api"
	"github.com/phrazzld/places-api/internal/api/middleware"
	"github.com/phrazzld/places-api/internal/platform/assets"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	if app.config.Server.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware(app.logger))
	r.Use(middleware.CORS(app.config.Server.CORSAllowedOrigin))

	r.NotFound(api.NotFoundHandler)
	r.MethodNotAllowed(api.MethodNotAllowedHandler)

	r.Route("/api", func(r chi.Router) {
		api.Routes(r, app.placeHandler, app.userHandler, app.authGuard, app.rateLimiter)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	app.mountImages(r)

	return r
}

// mountImages serves locally stored uploads under their public prefix.
// Images kept in S3 are served by the bucket and nothing is mounted.
func (app *application) mountImages(r chi.Router) {
	local, ok := app.assets.(*assets.LocalStore)
	if !ok {
		return
	}
	prefix := strings.TrimSuffix(app.config.Storage.PublicBaseURL, "/")
	if !strings.HasPrefix(prefix, "/") {
		app.logger.Warn("public image URL is not a local path, uploads will not be served",
			"public_base_url", app.config.Storage.PublicBaseURL)
		return
	}

	files := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(local.Dir())))
	r.Get(prefix+"/*", files.ServeHTTP)
}
