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

	"github.com/greenpadconcepts/greenpad/internal/auth"
	"github.com/greenpadconcepts/greenpad/internal/cache"
	"github.com/greenpadconcepts/greenpad/internal/config"
	"github.com/greenpadconcepts/greenpad/internal/email"
	"github.com/greenpadconcepts/greenpad/internal/handler"
	"github.com/greenpadconcepts/greenpad/internal/imagecdn"
	"github.com/greenpadconcepts/greenpad/internal/imaging"
	"github.com/greenpadconcepts/greenpad/internal/logging"
	"github.com/greenpadconcepts/greenpad/internal/middleware"
	"github.com/greenpadconcepts/greenpad/internal/objectstore"
	"github.com/greenpadconcepts/greenpad/internal/payment"
	"github.com/greenpadconcepts/greenpad/internal/render"
	"github.com/greenpadconcepts/greenpad/internal/scheduler"
	"github.com/greenpadconcepts/greenpad/internal/service"
	"github.com/greenpadconcepts/greenpad/internal/session"
	"github.com/greenpadconcepts/greenpad/internal/store"
	"github.com/greenpadconcepts/greenpad/internal/telemetry"
	"github.com/greenpadconcepts/greenpad/internal/version"
	"github.com/greenpadconcepts/greenpad/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const (
	siteName        = "GreenPad Concepts"
	serviceName     = "greenpad"
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 30 * time.Second
	staticMaxAge    = 7 * 24 * time.Hour
)

// mailer sends both kinds of transactional email.
type mailer interface {
	service.ContactMailer
	service.DonationMailer
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "GreenPad - nonprofit site and donation server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GREENPAD_SESSION_SECRET       Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GREENPAD_DB_PATH              SQLite database path (default: ./data/greenpad.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GREENPAD_SERVER_PORT          Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GREENPAD_ENV                  Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GREENPAD_ADMIN_EMAIL          Administrator created on first start\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GREENPAD_ADMIN_PASSWORD       Password for that administrator\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GREENPAD_UPLOAD_BACKEND       Image uploads: cloudinary|s3 (default: cloudinary)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GREENPAD_CLOUDINARY_*         CLOUD_NAME, UPLOAD_PRESET\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GREENPAD_S3_*                 BUCKET, REGION, BASE_URL, FOLDER\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GREENPAD_PAYSTACK_*           PUBLIC_KEY, SECRET_KEY\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GREENPAD_EMAILJS_*            SERVICE_ID, CONTACT_TEMPLATE_ID, DONATION_TEMPLATE_ID,\n")
		_, _ = fmt.Fprintf(os.Stderr, "                                PUBLIC_KEY, PRIVATE_KEY, CONTACT_INBOX\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GREENPAD_REDIS_URL            Redis URL for the post cache (default: in-memory)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GREENPAD_SITE_URL             Public base URL used in sitemap.xml\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GREENPAD_UPLOAD_MAX_WIDTH     Wider uploaded images are scaled down (default: 1600)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GREENPAD_OTEL_ENDPOINT        OTLP/HTTP trace endpoint (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// WARN and ERROR records also go to the events table for the dashboard.
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	admin := store.AdminSeed{Email: cfg.AdminEmail, Password: cfg.AdminPassword, Name: cfg.AdminName}
	if err := store.Seed(ctx, db, admin, auth.HashPassword); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint, serviceName, versionInfo.Short())
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			slog.Error("error flushing traces", "error", err)
		}
	}()
	if cfg.TracingEnabled() {
		slog.Info("tracing enabled", "endpoint", cfg.OTelEndpoint)
	}

	sessions := session.New(db, cfg.IsDevelopment())
	defer sessions.Close()

	queries := store.New(db)

	sched := scheduler.New(logger)
	if cfg.EventRetentionDays > 0 {
		cleanup := scheduler.EventCleanup(queries, cfg.EventRetentionDays, logger)
		if err := sched.Add("event-cleanup", scheduler.EventCleanupSchedule, cleanup); err != nil {
			return err
		}
	}
	sched.Start()
	defer sched.Stop()
	provider := auth.NewProvider(db, logger)

	uploader, imageHost, err := newUploader(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var mail mailer = email.LogSender{Logger: logger}
	if cfg.EmailJS.Enabled() {
		mail = email.NewClient(email.Config{
			ServiceID:          cfg.EmailJS.ServiceID,
			ContactTemplateID:  cfg.EmailJS.ContactTemplateID,
			DonationTemplateID: cfg.EmailJS.DonationTemplateID,
			PublicKey:          cfg.EmailJS.PublicKey,
			PrivateKey:         cfg.EmailJS.PrivateKey,
		})
		slog.Info("email delivery enabled", "provider", "emailjs")
	} else {
		slog.Warn("EmailJS not configured, emails will only be logged")
	}

	gateway := payment.NewGateway(payment.Config{
		PublicKey: cfg.Paystack.PublicKey,
		SecretKey: cfg.Paystack.SecretKey,
	})
	if !gateway.VerifiesRemotely() {
		slog.Warn("Paystack secret key not configured, payments will not be verified server-side")
	}

	cacheCfg := cache.DefaultConfig()
	cacheCfg.RedisURL = cfg.RedisURL
	cacheCfg.DefaultTTL = cfg.CacheTTL
	postCache, err := cache.New(ctx, cacheCfg)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = postCache.Close() }()
	if cfg.RedisURL != "" {
		slog.Info("post cache enabled", "backend", "redis")
	}

	blogService := service.NewBlogService(cache.NewPosts(queries, postCache, logger), logger)
	contactService := service.NewContactService(queries, mail, cfg.EmailJS.ContactInbox, logger)
	donationService := service.NewDonationService(queries, gateway, mail, logger)
	dashboardService := service.NewDashboardService(queries, logger)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS: templatesFS,
		Sessions:    sessions,
		Site: render.Site{
			Name:            siteName,
			PaystackEnabled: cfg.Paystack.Enabled(),
		},
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment(), imageHost)))

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", middleware.StaticCache(staticMaxAge)(handler.StaticHandler(http.FS(staticFS))))

	r.Group(func(r chi.Router) {
		r.Use(sessions.LoadAndSave)
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr()), logger))
		r.Use(middleware.LoadIdentity(sessions, provider, logger))

		handler.RegisterRoutes(r, handler.Handlers{
			Frontend: handler.NewFrontendHandler(renderer, blogService),
			Contact:  handler.NewContactHandler(renderer, contactService, cfg.EmailJS.ContactInbox),
			Donate:   handler.NewDonateHandler(renderer, sessions, donationService),
			Auth:     handler.NewAuthHandler(renderer, sessions, provider),
			Admin:    handler.NewAdminHandler(renderer, dashboardService, blogService),
			Uploads:  handler.NewUploadHandler(uploader, imaging.NewProcessor(cfg.UploadMaxWidth)),
			API:      handler.NewAPIHandler(blogService),
			Health:   handler.NewHealthHandler(db, versionInfo.Short()),
			SEO:      handler.NewSEOHandler(blogService, cfg.SiteURL, cfg.IsDevelopment()),
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // uploads to the CDN can be slow
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Short())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newUploader returns the configured image backend and the host its public
// URLs point at.
func newUploader(ctx context.Context, cfg *config.Config, logger *slog.Logger) (handler.ImageUploader, string, error) {
	if cfg.UploadBackend == config.UploadBackendS3 {
		objects, err := objectstore.New(ctx, objectstore.Config{
			Bucket:  cfg.S3.Bucket,
			Region:  cfg.S3.Region,
			Folder:  cfg.S3.Folder,
			BaseURL: cfg.S3.BaseURL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("initializing object store: %w", err)
		}
		slog.Info("image uploads enabled", "backend", "s3", "bucket", cfg.S3.Bucket)
		return objects, objects.URL(""), nil
	}

	if !cfg.Cloudinary.Enabled() {
		slog.Warn("Cloudinary not configured, image uploads will fail")
	} else {
		slog.Info("image uploads enabled", "backend", "cloudinary", "cloud", cfg.Cloudinary.CloudName)
	}
	return imagecdn.NewClient(imagecdn.Config{
		CloudName:    cfg.Cloudinary.CloudName,
		UploadPreset: cfg.Cloudinary.UploadPreset,
	}, logger), "", nil
}
