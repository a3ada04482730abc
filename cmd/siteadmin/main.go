// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/portfoliohq/siteadmin/internal/cache"
	"github.com/portfoliohq/siteadmin/internal/config"
	"github.com/portfoliohq/siteadmin/internal/handler"
	"github.com/portfoliohq/siteadmin/internal/logging"
	"github.com/portfoliohq/siteadmin/internal/middleware"
	"github.com/portfoliohq/siteadmin/internal/render"
	"github.com/portfoliohq/siteadmin/internal/scheduler"
	"github.com/portfoliohq/siteadmin/internal/session"
	"github.com/portfoliohq/siteadmin/internal/store"
	"github.com/portfoliohq/siteadmin/internal/version"
	"github.com/portfoliohq/siteadmin/web"
)

// crudHandlers defines the handler methods of one managed entity.
type crudHandlers struct {
	NewForm  http.HandlerFunc
	Create   http.HandlerFunc
	EditForm http.HandlerFunc
	Update   http.HandlerFunc
	Delete   http.HandlerFunc
}

// registerCRUD registers the create/edit/delete routes under base:
// GET+POST base/create, GET+POST base/{id}, POST base/{id}/delete.
// Other methods on these paths answer 405.
func registerCRUD(r chi.Router, base string, h crudHandlers) {
	r.Get(base+handler.RouteSuffixCreate, h.NewForm)
	r.Post(base+handler.RouteSuffixCreate, h.Create)
	r.Get(base+handler.RouteParamID, h.EditForm)
	r.Post(base+handler.RouteParamID, h.Update)
	r.Post(base+handler.RouteSuffixDelete, h.Delete)
}

// registerFormRoutes registers a single-form page.
func registerFormRoutes(r chi.Router, route string, get, save http.HandlerFunc) {
	r.Get(route, get)
	r.Post(route, save)
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "siteadmin - portfolio site back-office\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITEADMIN_SESSION_SECRET      Session/CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITEADMIN_DB_PATH             SQLite database path (default: ./data/siteadmin.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITEADMIN_SERVER_HOST/PORT    Listen address (default: localhost:8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITEADMIN_ENV                 development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITEADMIN_LOG_LEVEL           debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITEADMIN_ADMIN_EMAIL         Bootstrap staff email (with ADMIN_PASSWORD)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITEADMIN_EVENT_RETENTION_DAYS  Days of event log to keep, 0 keeps all (default: 90)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITEADMIN_REDIS_URL           Redis URL for the settings cache (default: in-memory)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("siteadmin %s\n", version.Current())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional outside development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.SlogLevel()
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	sqlDB, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(sqlDB)

	slog.Info("running database migrations")
	if err := store.Migrate(sqlDB); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	db, err := store.Open(sqlDB, logLevel == slog.LevelDebug)
	if err != nil {
		return err
	}
	queries := store.New(db)
	slog.Info("database ready")

	// Warnings and errors also go to the event log shown on the dashboard.
	logger := slog.New(logging.NewEventLogHandler(textHandler, queries))
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := store.Seed(ctx, queries, store.SeedOptions{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	}); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(sqlDB, cfg.IsDevelopment())

	settingsStore, err := cache.New(cache.Config{
		RedisURL:         cfg.RedisURL,
		Prefix:           "siteadmin:",
		DefaultTTL:       cfg.SettingsCacheTTL,
		FallbackToMemory: true,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := settingsStore.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	settingsCache := cache.NewSettingsCache(settingsStore, queries, cfg.SettingsCacheTTL)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		CurrentUser:    middleware.GetUser,
		SiteName:       middleware.GetSiteName,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	sched := scheduler.New(queries, logger, cfg.EventRetentionDays)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Close()

	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, loginProtection)
	adminHandler := handler.NewAdminHandler(db, renderer, sessionManager)
	postsHandler := handler.NewPostsHandler(db, renderer, sessionManager)
	cyberHandler := handler.NewCybersecurityHandler(db, renderer, sessionManager)
	toolsHandler := handler.NewToolsHandler(db, renderer, sessionManager)
	portfolioHandler := handler.NewPortfolioHandler(db, renderer, sessionManager)
	settingsHandler := handler.NewSettingsHandler(db, renderer, sessionManager, settingsCache)
	profileHandler := handler.NewProfileHandler(db, renderer, sessionManager, cfg.TOTPIssuer)
	healthHandler := handler.NewHealthHandler(db, sessionManager, filepath.Dir(cfg.DBPath))
	healthHandler.ReportCache(settingsStore)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr())))

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	r.Get("/robots.txt", handler.Robots)
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSiteConfig(settingsCache))
		r.Get("/login", authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post("/login", authHandler.Login)
		r.Get("/login/verify", authHandler.VerifyForm)
		r.With(loginProtection.Middleware()).Post("/login/verify", authHandler.Verify)
		r.Get("/logout", authHandler.Logout)
		r.Post("/logout", authHandler.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadUser(sessionManager, queries))
		r.Use(middleware.RequireStaff())
		r.Use(middleware.LoadSiteConfig(settingsCache))

		r.Get(handler.RouteRoot, adminHandler.Dashboard)

		r.Get("/blog", postsHandler.List)
		registerCRUD(r, "/blog", crudHandlers{
			NewForm:  postsHandler.NewForm,
			Create:   postsHandler.Create,
			EditForm: postsHandler.EditForm,
			Update:   postsHandler.Update,
			Delete:   postsHandler.Delete,
		})
		r.Get("/blog"+handler.RouteSuffixPrev, postsHandler.Preview)

		r.Get("/cybersecurity", cyberHandler.List)
		registerCRUD(r, "/cybersecurity", crudHandlers{
			NewForm:  cyberHandler.NewForm,
			Create:   cyberHandler.Create,
			EditForm: cyberHandler.EditForm,
			Update:   cyberHandler.Update,
			Delete:   cyberHandler.Delete,
		})

		r.Get("/tools", toolsHandler.List)
		registerCRUD(r, "/tools", crudHandlers{
			NewForm:  toolsHandler.NewTool,
			Create:   toolsHandler.CreateTool,
			EditForm: toolsHandler.EditTool,
			Update:   toolsHandler.UpdateTool,
			Delete:   toolsHandler.DeleteTool,
		})
		registerCRUD(r, "/tools/ai", crudHandlers{
			NewForm:  toolsHandler.NewAITool,
			Create:   toolsHandler.CreateAITool,
			EditForm: toolsHandler.EditAITool,
			Update:   toolsHandler.UpdateAITool,
			Delete:   toolsHandler.DeleteAITool,
		})
		registerCRUD(r, "/tools/resources", crudHandlers{
			NewForm:  toolsHandler.NewResource,
			Create:   toolsHandler.CreateResource,
			EditForm: toolsHandler.EditResource,
			Update:   toolsHandler.UpdateResource,
			Delete:   toolsHandler.DeleteResource,
		})

		r.Get("/portfolio", portfolioHandler.Overview)
		registerFormRoutes(r, "/portfolio/personal", portfolioHandler.PersonalForm, portfolioHandler.SavePersonal)
		registerCRUD(r, "/portfolio/projects", crudHandlers{
			NewForm:  portfolioHandler.NewProject,
			Create:   portfolioHandler.CreateProject,
			EditForm: portfolioHandler.EditProject,
			Update:   portfolioHandler.UpdateProject,
			Delete:   portfolioHandler.DeleteProject,
		})
		registerCRUD(r, "/portfolio/social", crudHandlers{
			NewForm:  portfolioHandler.NewSocialLink,
			Create:   portfolioHandler.CreateSocialLink,
			EditForm: portfolioHandler.EditSocialLink,
			Update:   portfolioHandler.UpdateSocialLink,
			Delete:   portfolioHandler.DeleteSocialLink,
		})

		registerFormRoutes(r, "/settings", settingsHandler.Settings, settingsHandler.SaveSettings)
		registerFormRoutes(r, "/seo", settingsHandler.SEO, settingsHandler.SaveSEO)

		registerFormRoutes(r, "/profile", profileHandler.Profile, profileHandler.UpdateProfile)
		registerFormRoutes(r, "/profile/2fa", profileHandler.TwoFactorSetup, profileHandler.EnableTwoFactor)
		r.Post("/profile/2fa/disable", profileHandler.DisableTwoFactor)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Current().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
