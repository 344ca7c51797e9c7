package http

import (
	"log/slog"
	"net/http"

	"activitycheckin/internal/delivery/http/controllers"
	"activitycheckin/internal/delivery/http/middleware"
	"activitycheckin/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups every controller the router mounts.
type Controllers struct {
	Auth          *controllers.AuthController
	Catalog       *controllers.CatalogController
	Profile       *controllers.ProfileController
	Registrations *controllers.RegistrationController
	Admin         *controllers.AdminController
	CheckIn       *controllers.CheckInController
	Notifications *controllers.NotificationController
	Health        *controllers.HealthController
}

// Auth carries what the two authentication middlewares need.
type Auth struct {
	Verifier   domain.TokenVerifier
	Identities domain.IdentityProvider
	Profiles   domain.VisitorProfileRepository
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, auth Auth, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	visitor := middleware.RequireVisitor(auth.Identities, auth.Profiles, logger)
	operator := middleware.RequireOperator(auth.Verifier, logger)

	// Visitor routes (platform access token)
	mux.HandleFunc("GET /api/courses", visitor(c.Catalog.ListCourses))
	mux.HandleFunc("GET /api/activities", visitor(c.Catalog.ListActivities))
	mux.HandleFunc("GET /api/visitor/profile", visitor(c.Profile.GetProfile))
	mux.HandleFunc("PUT /api/visitor/profile", visitor(c.Profile.SetupProfile))
	mux.HandleFunc("POST /api/visitor/registrations", visitor(c.Registrations.Register))
	mux.HandleFunc("GET /api/visitor/registrations", visitor(c.Registrations.ListMine))
	mux.HandleFunc("GET /api/visitor/registrations/stream", visitor(c.Registrations.Stream))
	mux.HandleFunc("GET /api/visitor/registrations/{registrationID}/qr", visitor(c.Registrations.QRCode))

	// Auth
	mux.HandleFunc("POST /api/auth/login", c.Auth.Login)

	// Operator routes (JWT)
	mux.HandleFunc("GET /api/admin/activities", operator(c.Admin.ListActivities))
	mux.HandleFunc("POST /api/admin/activities", operator(c.Admin.CreateActivity))
	mux.HandleFunc("POST /api/admin/courses", operator(c.Admin.CreateCourse))
	mux.HandleFunc("GET /api/admin/activities/{activityID}/registrations", operator(c.Admin.GetRoster))
	mux.HandleFunc("POST /api/admin/registrations", operator(c.Admin.RegisterOnBehalf))
	mux.HandleFunc("PATCH /api/admin/registrations/{registrationID}/seat", operator(c.Admin.AssignSeat))
	mux.HandleFunc("GET /api/admin/checkin", operator(c.CheckIn.State))
	mux.HandleFunc("POST /api/admin/checkin/scan", operator(c.CheckIn.Scan))
	mux.HandleFunc("POST /api/admin/checkin/search", operator(c.CheckIn.Search))
	mux.HandleFunc("POST /api/admin/checkin/confirm", operator(c.CheckIn.Confirm))
	mux.HandleFunc("POST /api/admin/checkin/reset", operator(c.CheckIn.Reset))

	// Notification gateway
	mux.HandleFunc("POST /api/send-notification", operator(c.Notifications.Send))

	mux.HandleFunc("GET /healthz", c.Health.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
