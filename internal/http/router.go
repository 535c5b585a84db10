package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/hirely-app/hirely-api/internal/auth"
	"github.com/hirely-app/hirely-api/internal/config"
	"github.com/hirely-app/hirely-api/internal/httputil"
	"github.com/hirely-app/hirely-api/internal/logging"
	"github.com/hirely-app/hirely-api/internal/matching"
	"github.com/hirely-app/hirely-api/internal/skill"
	"github.com/hirely-app/hirely-api/internal/user"
)

// Handlers groups the feature handlers mounted by NewRouter.
type Handlers struct {
	Auth     *auth.Handler
	User     *user.Handler
	Skill    *skill.Handler
	Matching *matching.Handler
}

// NewRouter creates and configures the HTTP router. uploadsDir, when set, is
// served read-only under /uploads for the local picture storage driver.
func NewRouter(cfg *config.Config, h Handlers, authMiddleware *auth.Middleware, uploadsDir string, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders(!cfg.Server.IsDevelopment()))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	if uploadsDir != "" {
		r.Handle(uploadsPrefix+"*", http.StripPrefix(uploadsPrefix, http.FileServer(http.Dir(uploadsDir))))
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Post("/forgot-password", h.Auth.ForgotPassword)
		r.Post("/verify-reset-token", h.Auth.VerifyResetToken)
		r.Post("/reset-password", h.Auth.ResetPassword)
	})

	// Public catalogue routes
	r.Get("/user/majors", h.User.ListMajors)
	r.Get("/skills/list", h.Skill.List)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Route("/user", func(r chi.Router) {
			r.Get("/data", h.User.GetProfile)
			r.Put("/update", h.User.UpdateProfile)
			r.Put("/major", h.User.UpdateMajor)
			r.Post("/picture", h.User.UploadPicture)
		})

		r.Route("/skills", func(r chi.Router) {
			r.Post("/add-user", h.Skill.AddToUser)
			r.Get("/mine", h.Skill.Mine)
			r.Delete("/user/{skillID}", h.Skill.Remove)
		})

		r.Route("/results", func(r chi.Router) {
			r.Post("/match-result", h.Matching.Match)
			r.Get("/history", h.Matching.History)
		})
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
