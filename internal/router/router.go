package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"library-catalog/internal/config"
	"library-catalog/internal/handler"
	"library-catalog/internal/metrics"
	"library-catalog/internal/middleware"
	"library-catalog/internal/model"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Roles      *handler.RoleHandler
	Authors    *handler.AuthorHandler
	Publishers *handler.PublisherHandler
	Books      *handler.BookHandler
	Audit      *handler.AuditHandler
	Docs       *handler.DocsHandler
	Health     *handler.HealthHandler
}

func New(cfg *config.Config, gate *middleware.AccessControl, m *metrics.Metrics, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Check)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	r.Get("/openapi.json", h.Docs.OpenAPIJSON)
	r.Get("/swagger", h.Docs.SwaggerUI)

	admin := gate.Guard(middleware.Roles(model.RoleAdmin))
	catalogWriter := gate.Guard(middleware.Roles(model.RoleEditor, model.RoleAdmin))

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/register", h.Auth.Register)
			auth.With(gate.RequireRefresh).Post("/refresh", h.Auth.Refresh)
			auth.With(gate.Authenticated).Post("/logout", h.Auth.Logout)
			auth.With(gate.Authenticated).Get("/me", h.Auth.Me)
		})

		api.Route("/users", func(users chi.Router) {
			users.With(gate.Authenticated).Get("/", h.Users.List)
			users.With(admin).Post("/", h.Users.Create)

			users.Route("/{user_id}", func(user chi.Router) {
				user.With(gate.Authenticated).Get("/", h.Users.Get)
				user.With(gate.Guard(middleware.RolesOrOwner("user_id", model.RoleEditor))).Put("/", h.Users.Update)
				user.With(gate.Guard(middleware.RolesOrOwner("user_id", model.RoleAdmin))).Delete("/", h.Users.Delete)
				user.With(gate.Guard(middleware.OwnerOnly("user_id"))).Put("/password", h.Users.ChangePassword)

				user.With(admin).Get("/roles", h.Users.ListRoles)
				user.With(admin).Post("/roles", h.Users.AssignRole)
				user.With(admin).Delete("/roles/{role_id}", h.Users.RemoveRole)
			})
		})

		api.With(gate.Authenticated).Get("/roles", h.Roles.List)

		api.Route("/authors", func(authors chi.Router) {
			authors.With(gate.Authenticated).Get("/", h.Authors.List)
			authors.With(catalogWriter).Post("/", h.Authors.Create)
			authors.With(gate.Authenticated).Get("/{author_id}", h.Authors.Get)
			authors.With(catalogWriter).Put("/{author_id}", h.Authors.Update)
			authors.With(catalogWriter).Delete("/{author_id}", h.Authors.Delete)
		})

		api.Route("/publishers", func(publishers chi.Router) {
			publishers.With(gate.Authenticated).Get("/", h.Publishers.List)
			publishers.With(catalogWriter).Post("/", h.Publishers.Create)
			publishers.With(gate.Authenticated).Get("/{publisher_id}", h.Publishers.Get)
			publishers.With(catalogWriter).Put("/{publisher_id}", h.Publishers.Update)
			publishers.With(catalogWriter).Delete("/{publisher_id}", h.Publishers.Delete)
		})

		api.Route("/books", func(books chi.Router) {
			books.With(gate.Authenticated).Get("/", h.Books.List)
			books.With(catalogWriter).Post("/", h.Books.Create)
			books.With(gate.Authenticated).Get("/{book_id}", h.Books.Get)
			books.With(catalogWriter).Put("/{book_id}", h.Books.Update)
			books.With(catalogWriter).Delete("/{book_id}", h.Books.Delete)
		})

		api.With(admin).Get("/audit", h.Audit.List)
	})

	return r
}
