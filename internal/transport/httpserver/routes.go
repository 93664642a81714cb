package httpserver

import (
	"net/http"
	"time"

	"family-finance-go/internal/config"
	"family-finance-go/internal/transport/httpserver/handler"
	authmw "family-finance-go/internal/transport/httpserver/middleware"
	"family-finance-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens authmw.TokenParser, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSAllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)
		r.Post("/auth/login", handlers.Common.Login)
		r.Post("/auth/refresh", handlers.Common.Refresh)

		auth := authmw.NewBearerAuth(tokens, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Common.AuthMe)

			r.Post("/users", handlers.Common.CreateUser)
			r.Get("/users/{id}", handlers.Common.GetUser)
			r.Put("/users/{id}", handlers.Common.UpdateUser)
			r.Delete("/users/{id}", handlers.Common.DeleteUser)

			r.Get("/groups", handlers.Groups.ListGroups)
			r.Post("/groups", handlers.Groups.CreateGroup)
			r.Get("/groups/{id}", handlers.Groups.GetGroup)
			r.Patch("/groups/{id}", handlers.Groups.RenameGroup)
			r.Delete("/groups/{id}", handlers.Groups.DeleteGroup)
			r.Get("/groups/{id}/permissions", handlers.Groups.ListGrants)
			r.Put("/groups/{id}/permissions", handlers.Groups.SetGrant)
			r.Get("/groups/{id}/permissions/{user_id}", handlers.Groups.GetGrant)
			r.Get("/me/permissions", handlers.Groups.ListMyGrants)

			r.Get("/assets", handlers.Finance.ListAssets)
			r.Post("/assets", handlers.Finance.CreateAsset)
			r.Get("/assets/{id}", handlers.Finance.GetAsset)
			r.Put("/assets/{id}", handlers.Finance.UpdateAsset)

			r.Get("/transactions", handlers.Finance.ListTransactions)
			r.Post("/transactions", handlers.Finance.CreateTransaction)
			r.Get("/transactions/{id}", handlers.Finance.GetTransaction)
			r.Put("/transactions/{id}", handlers.Finance.UpdateTransaction)

			r.Get("/documents", handlers.Documents.ListDocuments)
			r.Post("/documents", handlers.Documents.UploadDocument)
			r.Get("/documents/{id}", handlers.Documents.GetDocument)
			r.Put("/documents/{id}", handlers.Documents.UpdateDocument)

			r.Get("/notifications", handlers.Notifications.ListNotifications)
			r.Post("/notifications", handlers.Notifications.SendNotification)
			r.Put("/notifications/{id}", handlers.Notifications.MarkNotification)

			r.Get("/dashboard", handlers.Finance.Dashboard)
			r.Get("/insights/budget", handlers.Finance.Budget)
			r.Get("/insights/trends", handlers.Finance.Trends)
		})
	})

	return r
}
