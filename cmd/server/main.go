package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/parent-node-finder/backend/internal/api"
	"github.com/parent-node-finder/backend/internal/config"
	"github.com/parent-node-finder/backend/internal/logger"
	"github.com/parent-node-finder/backend/internal/parser"
	"github.com/parent-node-finder/backend/internal/session"
	"github.com/parent-node-finder/backend/internal/storage"
	"github.com/parent-node-finder/backend/internal/web"
	"github.com/spf13/pflag"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var showVersion bool

	flagSet := pflag.NewFlagSet("nodefinder-server", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to XML config (default: NodeFinder.exe.config next to the executable)")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Printf("nodefinder-server %s (%s)\n", Version, BuildTime)
		return nil
	}

	if configPath == "" {
		exePath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to get executable path: %w", err)
		}
		configPath = filepath.Join(filepath.Dir(exePath), "NodeFinder.exe.config")
	}

	// Load XML configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Advanced.LogLevel,
		Output:     cfg.Advanced.LogOutput,
		Console:    cfg.Advanced.ConsoleLog,
		TimeFormat: cfg.Advanced.LogTimeFormat,
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.WithComponent("server")

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	defaultMode, err := parser.ParseMode(cfg.Processing.DefaultMode)
	if err != nil {
		return fmt.Errorf("config DefaultMode: %w", err)
	}

	maxUpload, err := cfg.MaxUploadBytes()
	if err != nil {
		return err
	}

	// Initialize storage
	fileStore, err := storage.NewLocalStore(cfg.GetUploadDir(), maxUpload)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	profiles, err := config.LoadRootProfiles(cfg.Processing.RootProfilesFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionMgr := session.NewManager(cfg.Processing.MaxSessions)
	go sessionMgr.Run(ctx,
		time.Duration(cfg.Processing.CleanupIntervalMinutes)*time.Minute,
		time.Duration(cfg.Processing.SessionTimeoutMinutes)*time.Minute,
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	api.SetExposeErrorDetails(cfg.Advanced.ExposeErrorDetails)
	api.SetupMiddleware(e, cfg.Advanced.EnableRequestLogging)

	if cfg.Processing.EnableCompression {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: cfg.Processing.CompressionLevel,
		}))
	}

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Store:         fileStore,
		SessionMgr:    sessionMgr,
		Profiles:      profiles,
		DefaultMode:   defaultMode,
		MaxUploadSize: maxUpload,
		AllowDeletion: cfg.Storage.AllowDeletion,
		DocsPath:      cfg.Advanced.DocsPath,
		Version:       Version,
	}))

	// Register embedded viewer if available
	embedded := web.HasEmbeddedFiles()
	if embedded {
		if err := web.RegisterStaticRoutes(e); err != nil {
			log.Warn().Err(err).Msg("failed to register static routes")
			embedded = false
		}
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	log.Info().
		Str("version", Version).
		Str("buildTime", BuildTime).
		Str("config", configPath).
		Str("listen", cfg.GetServerAddr()).
		Str("dataDir", cfg.GetDataDir()).
		Str("defaultMode", string(defaultMode)).
		Int("rootProfiles", len(profiles.Profiles)).
		Bool("embeddedUI", embedded).
		Msg("Parent Node Finder server starting")

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.StartServer(s)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
