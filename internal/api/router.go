package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/storefront/storefront-api/docs"
	"github.com/storefront/storefront-api/internal/api/handler"
	"github.com/storefront/storefront-api/internal/api/middleware"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// Deps is everything the HTTP layer needs. Mongo and Redis are only used by
// the readiness probe and may be nil in tests.
type Deps struct {
	Logger zerolog.Logger

	Auth     ports.AuthService
	Admin    ports.AdminService
	Products ports.ProductService
	Orders   ports.OrderService
	Blobs    ports.BlobStore

	Tokens  ports.TokenVerifier
	Revoker ports.TokenRevoker
	Users   middleware.UserLoader

	Mongo *mongo.Database
	Redis *redis.Client

	// Registry receives the HTTP middleware metrics. Nil selects the
	// default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.BodyLimit("6M"))
	e.Use(prometheusMiddleware(d.Registry))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	adminHandler := handler.NewAdminHandler(d.Admin)
	productHandler := handler.NewProductHandler(d.Products)
	orderHandler := handler.NewOrderHandler(d.Orders)
	uploadHandler := handler.NewUploadHandler(d.Blobs)

	authenticate := middleware.Authenticate(d.Tokens, d.Revoker, d.Users)
	requireAdmin := middleware.RequireAdmin()

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/admin/login", authHandler.AdminLogin)
	auth.GET("/profile", authHandler.Profile, authenticate)
	auth.PUT("/profile", authHandler.UpdateProfile, authenticate)
	auth.POST("/profile/image", authHandler.UploadAvatar, authenticate)
	auth.POST("/logout", authHandler.Logout, authenticate)

	// --- Admin routes ---
	admin := e.Group("/admin", authenticate, requireAdmin)
	admin.GET("/users", adminHandler.ListUsers)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)

	// --- Catalog routes ---
	e.GET("/products", productHandler.List)
	e.GET("/products/:id", productHandler.Get)
	e.POST("/products", productHandler.Create, authenticate, requireAdmin)
	e.PUT("/products/:id", productHandler.Update, authenticate, requireAdmin)
	e.DELETE("/products/:id", productHandler.Delete, authenticate, requireAdmin)

	orders := e.Group("/orders", authenticate)
	orders.POST("", orderHandler.Create)
	orders.GET("/mine", orderHandler.Mine)

	e.GET("/uploads/:id", uploadHandler.Serve)

	// --- Health checks (no auth required) ---
	e.GET("/health", handler.Liveness)
	if d.Mongo != nil {
		e.GET("/health/ready", handler.NewReadinessHandler(d.Mongo, d.Redis).Readiness)
	}

	// --- Observability ---
	e.GET("/metrics", metricsHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func prometheusMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{
		Namespace: "storefront",
		Subsystem: "http",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
		DoNotUseRequestPathFor404: true,
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
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
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			} else if v.Status >= 400 {
				ev = log.Warn()
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
