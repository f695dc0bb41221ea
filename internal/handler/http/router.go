package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asqwklop12/sparta/internal/domain"
	"github.com/asqwklop12/sparta/pkg/health"
	"github.com/asqwklop12/sparta/pkg/middleware"
)

const serviceName = "myselectshop"

// Services bundles the use cases the router exposes.
type Services struct {
	Products ProductService
	Folders  FolderService
	Users    UserService
	Search   Searcher
}

// NewRouter creates a chi router with all wish-list routes registered.
func NewRouter(
	svc Services,
	tokens middleware.TokenValidator,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	userHandler := NewUserHandler(svc.Users, logger)
	productHandler := NewProductHandler(svc.Products, logger)
	folderHandler := NewFolderHandler(svc.Folders, logger)
	searchHandler := NewSearchHandler(svc.Search, logger)

	// Account endpoints (public)
	r.Route("/api/user", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/signup", userHandler.Signup)
		r.Post("/login", userHandler.Login)
	})

	// Authenticated endpoints
	r.Group(func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokens))
		r.Use(middleware.RequestLogger(logger))

		r.Route("/api/products", func(r chi.Router) {
			r.Post("/", productHandler.CreateProduct)
			r.Get("/", productHandler.ListProducts)
			r.Put("/{id}", productHandler.UpdateMyPrice)
			r.Post("/{id}/refresh", productHandler.RefreshProduct)
			r.Post("/{productId}/folder", productHandler.AddToFolder)
		})

		r.Route("/api/folders", func(r chi.Router) {
			r.Post("/", folderHandler.CreateFolders)
			r.Get("/", folderHandler.ListFolders)
			r.Get("/{folderId}/products", productHandler.ListFolderProducts)
		})

		r.Get("/api/search", searchHandler.Search)

		r.With(middleware.RequireRole(domain.RoleAdmin)).
			Get("/api/admin/products", productHandler.ListAllProducts)
	})

	return r
}
