package api

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/mindfulthreads/storefront/docs"
	"github.com/mindfulthreads/storefront/internal/api/handler"
	"github.com/mindfulthreads/storefront/internal/api/middleware"
	"github.com/mindfulthreads/storefront/internal/core/domain"
	"github.com/mindfulthreads/storefront/internal/core/ports"
	"github.com/mindfulthreads/storefront/internal/infrastructure/http/handlers"
)

// Deps is everything the HTTP layer needs from the rest of the application.
type Deps struct {
	Accounts ports.AccountService
	Sessions ports.SessionService
	Catalog  ports.CatalogService

	// SessionSecret signs the cookie session; SessionTTL bounds its lifetime.
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool

	// Readiness lists the backends /health/ready pings, by name.
	Readiness map[string]handlers.Pinger

	// Registerer receives the HTTP request metrics. Defaults to the global
	// Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(session.Middleware(newCookieStore(d)))
	e.Use(middleware.Identity(d.Sessions))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Accounts, d.Sessions, d.SessionTTL)
	productHandler := handler.NewProductHandler(d.Catalog)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me)

	// --- Public catalog ---
	e.GET("/collections", productHandler.Collections)
	e.GET("/products/:id", productHandler.Get)

	// --- Admin dashboard ---
	admin := e.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/products", productHandler.AdminList)
	admin.POST("/products", productHandler.Create)
	admin.PUT("/products/:id", productHandler.Update)
	admin.DELETE("/products/:id", productHandler.Delete)

	// --- Designer dashboard ---
	designer := e.Group("/designer", middleware.RequireRole(domain.RoleDesigner))
	designer.GET("/products", productHandler.DesignerList)
	designer.POST("/products", productHandler.Create)
	designer.PUT("/products/:id", productHandler.Update)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// newCookieStore derives separate signing and encryption keys from the
// session secret.
func newCookieStore(d Deps) *sessions.CookieStore {
	authKey := sha256.Sum256([]byte("auth:" + d.SessionSecret))
	encKey := sha256.Sum256([]byte("enc:" + d.SessionSecret))

	store := sessions.NewCookieStore(authKey[:], encKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(d.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   d.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
