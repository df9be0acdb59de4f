package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"

	"eventgallery/internal/delivery/http/controllers"
	"eventgallery/internal/delivery/http/middleware"
	"eventgallery/internal/domain"
	"eventgallery/internal/metrics"
)

// loginRateLimit caps login attempts per client IP to slow down credential
// stuffing.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// NewRouter initializes the HTTP router with all application routes. Mutating
// endpoints require a Bearer token; reads, login, and the static file tree
// are public. staticDir is served under /static/.
func NewRouter(
	eventController *controllers.EventController,
	photoController *controllers.PhotoController,
	userController *controllers.UserController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
	staticDir string,
) *http.ServeMux {
	mux := http.NewServeMux()
	guard := middleware.RequireAuth(verifier, logger)

	// Events
	mux.HandleFunc("GET /events/{$}", eventController.List)
	mux.HandleFunc("POST /events/{$}", guard(eventController.Create))
	mux.HandleFunc("POST /events/upload-cover/{$}", guard(eventController.UploadCover))
	mux.HandleFunc("GET /events/{id}", eventController.Get)
	mux.HandleFunc("PUT /events/{id}", guard(eventController.Update))
	mux.HandleFunc("DELETE /events/{id}", guard(eventController.Delete))

	// Photos
	mux.HandleFunc("POST /photos/upload/{event_id}", guard(photoController.Upload))
	mux.HandleFunc("GET /photos/events/{event_id}/photos", photoController.ListForEvent)
	mux.HandleFunc("DELETE /photos/{photo_id}", guard(photoController.Delete))

	// Admin
	limiter := httprate.LimitByIP(loginRateLimit, loginRateWindow)
	mux.Handle("POST /admin/login", limiter(http.HandlerFunc(userController.Login)))
	mux.HandleFunc("GET /admin/me", guard(userController.GetMe))
	mux.HandleFunc("PUT /admin/me", guard(userController.UpdateMe))
	mux.HandleFunc("POST /admin/create-user", guard(userController.CreateUser))

	// Uploaded images
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	// Observability
	mux.Handle("GET /metrics", metrics.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
