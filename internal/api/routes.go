// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/parent-node-finder/backend/internal/logger"
	"github.com/parent-node-finder/backend/internal/models"
	"github.com/parent-node-finder/backend/internal/parser"
	"github.com/parent-node-finder/backend/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store         storage.Store
	SessionMgr    SessionManager
	Registry      *parser.Registry
	Profiles      *models.RootProfiles
	DefaultMode   models.Mode
	MaxUploadSize int64
	AllowDeletion bool
	DocsPath      string
	Version       string
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Process ProcessHandler
	Session SessionHandler
	File    FileHandler
	Docs    DocsHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version, deps.SessionMgr),
		Process: NewProcessHandler(deps.Store, deps.SessionMgr, ProcessOptions{
			Registry:    deps.Registry,
			Profiles:    deps.Profiles,
			DefaultMode: deps.DefaultMode,
			MaxBytes:    deps.MaxUploadSize,
		}),
		Session: NewSessionHandler(deps.SessionMgr),
		File:    NewFileHandler(deps.Store, deps.AllowDeletion),
		Docs:    NewDocsHandler(deps.DocsPath),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// One-shot processing and stored-file parsing
	apiGroup.POST("/process", handlers.Process.HandleProcess)
	apiGroup.POST("/parse", handlers.Process.HandleParseStored)
	apiGroup.GET("/modes", handlers.Process.HandleGetModes)
	apiGroup.GET("/roots/profiles", handlers.Process.HandleGetRootProfiles)

	// Sessions
	sessionGroup := apiGroup.Group("/sessions")
	sessionGroup.GET("/:sessionId", handlers.Session.HandleGetSession)
	sessionGroup.POST("/:sessionId/sort", handlers.Session.HandleSortSession)
	sessionGroup.POST("/:sessionId/keepalive", handlers.Session.HandleSessionKeepAlive)
	sessionGroup.DELETE("/:sessionId", handlers.Session.HandleDeleteSession)

	// File management
	fileGroup := apiGroup.Group("/files")
	fileGroup.POST("/upload", handlers.File.HandleUploadFile)
	fileGroup.GET("/recent", handlers.File.HandleGetRecentFiles)
	fileGroup.DELETE("/:id", handlers.File.HandleDeleteFile)

	e.GET("/docs", handlers.Docs.HandleDocs)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, requestLogging bool) {
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.Recover())

	if requestLogging {
		e.Use(RequestLogger())
	}
}

// RequestLogger logs each request through the structured logger.
func RequestLogger() echo.MiddlewareFunc {
	log := logger.WithComponent("http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasSuffix(c.Request().URL.Path, "/health")
		},
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil || v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
