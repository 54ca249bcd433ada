package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/goride/admin-api/internal/api/handler"
	"github.com/goride/admin-api/internal/api/middleware"
	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"

	_ "github.com/goride/admin-api/docs"
)

// Deps are the wired services the router exposes.
type Deps struct {
	Auth     ports.AuthService
	Profiles ports.ProfileService
	Rides    ports.RideService
	Images   ports.ImageStore
	Checks   []handler.Check
	Logger   zerolog.Logger

	BackendURL string
	BodyLimit  string
	// Development exposes the cause of 500 responses in the envelope.
	Development bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger, d.Development)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.CORS())
	if d.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(d.BodyLimit))
	}

	links := handler.NewLinks(d.BackendURL)
	authn := middleware.Auth(d.Auth)
	adminOnly := []echo.MiddlewareFunc{authn, middleware.RequireKind(domain.KindAdmin)}
	riders := []echo.MiddlewareFunc{authn, middleware.RequireKind(domain.KindCustomer, domain.KindAdmin)}

	profiles := make(map[domain.Kind]*handler.ProfileHandler, len(domain.Kinds))
	for _, k := range domain.Kinds {
		profiles[k] = handler.NewProfileHandler(d.Profiles, k, links)
	}

	// --- Auth routes, one group per account kind ---
	groups := map[domain.Kind]*echo.Group{
		domain.KindAdmin:    e.Group("/admin"),
		domain.KindCustomer: e.Group("/api/customer"),
		domain.KindDriver:   e.Group("/api/driver"),
	}
	for _, k := range domain.Kinds {
		g := groups[k]
		ah := handler.NewAuthHandler(d.Auth, k, links)
		g.POST("/login", ah.Login)
		g.POST("/signup", ah.Signup)
		g.POST("/forget-password", ah.ForgotPassword)
		g.POST("/reset-password/:token", ah.ResetPassword)

		// Listings are admin views for every kind.
		g.GET("/show", profiles[k].List, adminOnly...)
	}

	// --- Admin-managed profiles ---
	admin := groups[domain.KindAdmin]
	managed := map[string]*handler.ProfileHandler{
		"/customer-profile": profiles[domain.KindCustomer],
		"/driver-profile":   profiles[domain.KindDriver],
		"/team-profile":     profiles[domain.KindAdmin],
	}
	for prefix, ph := range managed {
		admin.GET(prefix+"/:id", ph.Get, adminOnly...)
		admin.POST(prefix+"/update/:id", ph.Update, adminOnly...)
		admin.DELETE(prefix+"/:id", ph.Delete, adminOnly...)
	}

	// --- Self-service profiles ---
	for _, k := range []domain.Kind{domain.KindCustomer, domain.KindDriver} {
		own := []echo.MiddlewareFunc{authn, middleware.RequireKind(k)}
		groups[k].GET("/profile/:id", profiles[k].GetOwn, own...)
		groups[k].PUT("/profile/:id", profiles[k].UpdateOwn, own...)
	}

	// --- Ride catalogue ---
	rides := handler.NewRideHandler(d.Rides)
	customer := groups[domain.KindCustomer]
	customer.GET("/ride-types", rides.RideTypes, riders...)
	customer.GET("/rides/:ride", rides.RidesByType, riders...)
	customer.GET("/ride/:id", rides.Ride, riders...)

	// --- Static uploads ---
	if d.Images != nil {
		e.GET("/uploads/:kind/:file", handler.NewUploadHandler(d.Images).Serve)
	}

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewHealthDependenciesHandler(d.Checks...).Readiness)

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error()
			} else if v.Status >= 400 {
				ev = log.Warn()
			}
			if v.Error != nil {
				ev = ev.Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
