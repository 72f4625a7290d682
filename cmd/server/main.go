package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/sessions"

	"github.com/alextreichler/meatpoint/internal/auth"
	"github.com/alextreichler/meatpoint/internal/config"
	"github.com/alextreichler/meatpoint/internal/handlers"
	"github.com/alextreichler/meatpoint/internal/obs"
	"github.com/alextreichler/meatpoint/internal/service"
	"github.com/alextreichler/meatpoint/internal/store"
	"github.com/alextreichler/meatpoint/web"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var logHandler slog.Handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	if strings.EqualFold(cfg.LogFormat, "json") {
		logHandler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler).With("service", cfg.ServiceName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run Migrations
	if err := db.Migrate(ctx); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := obs.InitTracer(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.Env)
	if err != nil {
		slog.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// 3. Session Setup (flash messages only; the admin session is a signed token)
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	issuer := auth.NewIssuer(cfg.AuthSecret, cfg.SessionTTL,
		auth.WithCookieSecure(cfg.CookieSecure),
		auth.WithCookieDomain(cfg.CookieDomain),
	)

	// 4. Init Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load(web.Templates()); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 5. Setup Handlers
	catalog := service.NewCatalogService(db)
	bookings := service.NewBookingService(db)
	authService := auth.NewService(db, issuer)

	router := handlers.NewRouter(handlers.RouterConfig{
		API: &handlers.APIHandler{
			Store:    db,
			Catalog:  catalog,
			Bookings: bookings,
			Auth:     authService,
			Issuer:   issuer,
		},
		Home: &handlers.HomeHandler{
			Catalog:      catalog,
			Bookings:     bookings,
			Templates:    templates,
			SessionStore: sessionStore,
		},
		Admin: &handlers.AdminHandler{
			Store:        db,
			Catalog:      catalog,
			Bookings:     bookings,
			Auth:         authService,
			Issuer:       issuer,
			SessionStore: sessionStore,
			Templates:    templates,
		},
		Static:         web.Static(),
		CSRFKey:        cfg.CSRFKey,
		CookieSecure:   cfg.CookieSecure,
		TrustedOrigins: []string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port},
	})

	// 6. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-ctx.Done()

	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("Tracer shutdown failed", "error", err)
	}

	slog.Info("Server exited gracefully.")
}
