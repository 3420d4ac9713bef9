package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/customer-care/ticket-api/internal/api/http/handlers"
	"github.com/customer-care/ticket-api/internal/auth"
	"github.com/customer-care/ticket-api/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Responses      *handlers.ResponsesHandler
	Categories     *handlers.CategoriesHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if reg := cfg.Metrics.Registry(); reg != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	api.Post("/register", cfg.Users.Register)
	api.Post("/login", cfg.Users.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Post("/logout", cfg.Users.Logout)
	protected.Get("/user", cfg.Users.Me)

	protected.Get("/tickets", cfg.Tickets.ListTickets)
	protected.Post("/tickets", cfg.Tickets.CreateTicket)
	protected.Get("/tickets/:id", cfg.Tickets.GetTicket)
	protected.Put("/tickets/:id", cfg.Tickets.UpdateTicket)
	protected.Patch("/tickets/:id", cfg.Tickets.UpdateTicket)
	protected.Delete("/tickets/:id", cfg.Tickets.DeleteTicket)

	protected.Get("/tickets/:ticketId/responses", cfg.Responses.ListTicketResponses)
	protected.Post("/tickets/:ticketId/responses", cfg.Responses.CreateResponse)
	protected.Get("/responses", cfg.Responses.ListResponses)
	protected.Post("/responses", cfg.Responses.CreateResponse)
	protected.Get("/responses/:id", cfg.Responses.GetResponse)
	protected.Put("/responses/:id", cfg.Responses.UpdateResponse)
	protected.Delete("/responses/:id", cfg.Responses.DeleteResponse)

	protected.Get("/categories", cfg.Categories.ListCategories)
	protected.Post("/categories", cfg.Categories.CreateCategory)
}
