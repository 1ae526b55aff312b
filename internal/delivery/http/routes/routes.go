package routes

import (
	"internmatch/internal/delivery/http/handler"
	"internmatch/internal/delivery/http/middleware"
	"internmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Registry mounts every HTTP surface: health, the versioned API, and the
// websocket endpoint.
type Registry struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Directions   *handler.DirectionsHandler
	Students     *handler.StudentHandler
	Companies    *handler.CompanyHandler
	Internships  *handler.InternshipHandler
	Applications *handler.ApplicationHandler
	Messages     *handler.MessageHandler
	WS           *ws.Handler

	AuthMW   *middleware.AuthMiddleware
	ErrorMW  *middleware.ErrorMiddleware
	AccessMW *middleware.AccessLogMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	app.Use(r.ErrorMW.Middleware())
	app.Use(r.AccessMW.Middleware())

	r.Health.RegisterRoutes(app)

	api := app.Group("/api")
	r.registerV1(api.Group("/v1"))
}

func (r *Registry) registerV1(v1 fiber.Router) {
	r.Auth.RegisterRoutes(v1.Group("/auth"))

	protected := v1.Group("", r.AuthMW.Middleware())

	// Protected internship routes go first so "/internships/mine" is not
	// swallowed by the public "/internships/:id" parameter route.
	r.Internships.RegisterProtectedRoutes(protected.Group("/internships"))
	r.Internships.RegisterPublicRoutes(v1.Group("/internships"))

	r.Auth.RegisterProtectedRoutes(protected.Group("/auth"))
	r.Directions.RegisterRoutes(protected.Group("/session"))
	r.Students.RegisterRoutes(protected.Group("/students"))
	r.Companies.RegisterRoutes(protected.Group("/companies"))
	r.Applications.RegisterRoutes(protected)
	r.Messages.RegisterRoutes(protected.Group("/messages"))

	if r.WS != nil {
		protected.Get("/ws/messages", r.WS.HandleMessagesWS)
	}
}
