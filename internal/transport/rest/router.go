package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/crm-management/internal/auth"
	"github.com/frahmantamala/crm-management/internal/customer"
	"github.com/frahmantamala/crm-management/internal/permission"
	"github.com/frahmantamala/crm-management/internal/role"
	"github.com/frahmantamala/crm-management/internal/transport"
	"github.com/frahmantamala/crm-management/internal/transport/metrics"
	"github.com/frahmantamala/crm-management/internal/transport/middleware"
	"github.com/frahmantamala/crm-management/internal/transport/swagger"
	"github.com/frahmantamala/crm-management/internal/user"
	"github.com/go-chi/chi"
)

// Routes carries everything RegisterAllRoutes mounts. Nil handlers are skipped.
type Routes struct {
	Health         *HealthHandler
	Auth           *auth.Handler
	RBAC           *auth.RBACAuthorization
	Users          *user.Handler
	Customers      *customer.Handler
	Roles          *role.Handler
	Permissions    *permission.Handler
	OpenAPI        *swagger.Document
	MetricsPath    string
	AllowedOrigins []string
}

const gateMember = user.RoleUser + "|" + user.RoleAdmin

func RegisterAllRoutes(router *chi.Mux, routes Routes, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORS(routes.AllowedOrigins))
	router.Use(metrics.Middleware)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		transport.WriteFailure(w, http.StatusNotFound, "Resource not found", logger)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		transport.WriteFailure(w, http.StatusMethodNotAllowed, "Method not allowed", logger)
	})

	if routes.MetricsPath != "" {
		router.Handle(routes.MetricsPath, metrics.Handler())
	}
	if routes.OpenAPI != nil {
		router.Handle(swagger.DocumentPath, routes.OpenAPI)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if routes.Health != nil {
			r.Get("/health", routes.Health.check)
			r.Get("/ping", routes.Health.ping)
		}

		if routes.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", routes.Auth.Register)
			ar.Post("/login", routes.Auth.Login)
			ar.With(routes.Auth.AuthMiddleware, middleware.UserContext).Post("/logout", routes.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(routes.Auth.AuthMiddleware)
			pr.Use(middleware.UserContext)

			pr.Group(func(mr chi.Router) {
				mr.Use(routes.RBAC.RequireRoles(gateMember))

				if routes.Customers != nil {
					mr.Route("/customers", func(cr chi.Router) {
						cr.Get("/", routes.Customers.ListCustomers)
						cr.Post("/create", routes.Customers.CreateCustomer)
						cr.Get("/{id}/details", routes.Customers.GetCustomer)
						cr.Patch("/{id}/update", routes.Customers.UpdateCustomer)
						cr.Delete("/{id}/delete", routes.Customers.DeleteCustomer)
					})
				}

				if routes.Users != nil {
					mr.Get("/user/profile", routes.Users.GetProfile)
					mr.Patch("/user/update", routes.Users.UpdateProfile)
				}
			})

			pr.Group(func(ad chi.Router) {
				ad.Use(routes.RBAC.RequireAdmin())

				if routes.Users != nil {
					ad.Route("/users", func(ur chi.Router) {
						ur.Get("/", routes.Users.ListUsers)
						ur.Post("/create", routes.Users.CreateUser)
						ur.Get("/{id}/details", routes.Users.GetUser)
						ur.Patch("/{id}/update", routes.Users.UpdateUser)
						ur.Delete("/{id}/delete", routes.Users.DeleteUser)
						ur.Post("/status/{id}/admin", routes.Users.MakeAdmin)
					})
				}

				if routes.Roles != nil {
					ad.Route("/roles", func(rr chi.Router) {
						rr.Get("/", routes.Roles.ListRoles)
						rr.Post("/create", routes.Roles.CreateRole)
						rr.Get("/{id}/details", routes.Roles.GetRole)
						rr.Patch("/{id}/update", routes.Roles.UpdateRole)
						rr.Delete("/{id}/delete", routes.Roles.DeleteRole)
					})
				}

				if routes.Permissions != nil {
					ad.Route("/permissions", func(pr chi.Router) {
						pr.Get("/", routes.Permissions.ListPermissions)
						pr.Post("/create", routes.Permissions.CreatePermission)
						pr.Get("/{id}/details", routes.Permissions.GetPermission)
						pr.Patch("/{id}/update", routes.Permissions.UpdatePermission)
						pr.Delete("/{id}/delete", routes.Permissions.DeletePermission)
					})
				}
			})
		})
	})
}
