package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/0xsarwagya/thahrav-new/internal/service"
	"github.com/0xsarwagya/thahrav-new/internal/session"
	"github.com/0xsarwagya/thahrav-new/pkg/health"
	"github.com/0xsarwagya/thahrav-new/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	userService *service.UserService,
	authService *service.AuthService,
	sessions *session.Manager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Auth endpoints (public). The callback lands from an email link as a
	// plain GET, so the content-type guard applies only to the POSTs.
	authHandler := NewAuthHandler(authService, sessions, logger)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Get("/callback", authHandler.Callback)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/signin", authHandler.SignIn)
			r.Post("/signout", authHandler.SignOut)
		})
	})

	// Identity resolver that bridges the session cookie to the middleware's
	// notion of a caller. Resolve may refresh the cookie on the way through.
	resolveSession := func(w http.ResponseWriter, req *http.Request) (*middleware.Identity, error) {
		sess, err := sessions.Resolve(req.Context(), w, req)
		if err != nil {
			return nil, err
		}
		if sess == nil {
			return nil, nil
		}
		return &middleware.Identity{UserID: sess.UserID, Email: sess.Email}, nil
	}

	// Profile and address endpoints (session required)
	userHandler := NewUserHandler(userService, logger)
	addressHandler := NewAddressHandler(userService, logger)

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Session(resolveSession, logger))

		r.Get("/me", userHandler.GetProfile)
		r.Put("/me", userHandler.UpdateProfile)

		r.Get("/me/addresses", addressHandler.List)
		r.Post("/me/addresses", addressHandler.Create)
		r.Put("/me/addresses", addressHandler.Update)
	})

	return r
}
