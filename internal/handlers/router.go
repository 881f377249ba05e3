package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/banglish/backend/internal/logging"
	appMiddleware "github.com/banglish/backend/internal/middleware"
)

type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
	Logger         *zap.Logger
}

type Handlers struct {
	Auth          *AuthHandler
	Convert       *ConvertHandler
	Export        *ExportHandler
	Contributions *ContributionHandler
	Analytics     *AnalyticsHandler
	Chat          *ChatHandler
}

func NewRouter(h Handlers, cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Public conversion surface
	r.Post("/convert", h.Convert.Convert)
	r.Post("/export-pdf", h.Export.ExportPDF)
	r.Post("/chat", h.Chat.Chat)
	r.Get("/analytics", h.Analytics.Summary)
	r.Get("/analytics/data", h.Analytics.Series)

	r.With(appMiddleware.OptionalAuth(cfg.JWTSecret)).Post("/contribute", h.Contributions.Contribute)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.With(appMiddleware.JWTAuth(cfg.JWTSecret)).Get("/me", h.Auth.GetProfile)
	})

	// Review queue
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))
		r.Use(appMiddleware.RequireAdmin)

		r.Get("/view-contributions", h.Contributions.ListContributions)
		r.Route("/contributions/{contributionId}", func(r chi.Router) {
			r.Get("/", h.Contributions.GetContribution)
			r.Post("/approve", h.Contributions.Approve)
			r.Post("/reject", h.Contributions.Reject)
		})
	})

	return r
}
