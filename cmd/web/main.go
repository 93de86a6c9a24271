package main

import (
	"context"
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/auth"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/config"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	apphttp "github.com/ujaasaroma/Admin.UjaasAroma/internal/http"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/middleware"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/images"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mailer"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/dashboard"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/orders"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/products"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/queries"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/resetauth"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/users"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/notify"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/storage"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DB.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()

	gw := docstore.NewSQLStore(db, logger)
	defer gw.Close()

	store, err := storage.New(ctx, cfg.Storage.Driver,
		storage.LocalConfig{BaseDir: cfg.Storage.LocalDir, URLPrefix: cfg.Storage.LocalURLPrefix},
		storage.S3Config{
			Region:        cfg.S3.Region,
			Bucket:        cfg.S3.Bucket,
			Prefix:        cfg.S3.Prefix,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		})
	if err != nil {
		log.Fatalf("failed to init object storage: %v", err)
	}

	hub := notify.NewHub()
	orch := mutate.New(hub.Notifier())
	pipeline := images.NewPipeline(store, logger, hub.Notifier())
	mail := mailer.NewSMTPMailer(cfg.SMTP)

	authSvc := auth.NewService(db, gw, logger)
	prodSvc := products.NewService(gw, orch, pipeline, logger)
	ordSvc := orders.NewService(gw, orch, logger)
	userSvc := users.NewService(gw, orch, logger)
	querySvc := queries.NewService(gw, orch, logger)
	resetSvc := resetauth.NewService(gw, mail,
		&resetauth.DocLinkGenerator{GW: gw, LoginURL: cfg.Reset.LoginURL},
		cfg.SMTP.FromName, cfg.SMTP.FromAddr, logger)
	dashSvc := dashboard.NewService(gw, logger)

	for name, start := range map[string]func(context.Context) (func(), error){
		"products":  prodSvc.Start,
		"orders":    ordSvc.Start,
		"users":     userSvc.Start,
		"queries":   querySvc.Start,
		"resetlogs": resetSvc.Start,
	} {
		if _, err := start(ctx); err != nil {
			log.Fatalf("failed to start %s subscription: %v", name, err)
		}
	}
	if err := dashSvc.Start(ctx); err != nil {
		log.Fatalf("failed to start dashboard counters: %v", err)
	}

	r := apphttp.NewRouter(apphttp.Deps{
		Log: logger,
		Session: middleware.SessionCfg{
			DB:         db,
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.Secure,
			TTL:        cfg.Session.TTL,
		},
		Auth:      authSvc,
		Products:  prodSvc,
		Orders:    ordSvc,
		Users:     userSvc,
		Queries:   querySvc,
		Reset:     resetSvc,
		Dashboard: dashSvc,
		Orch:      orch,
		Notify:    hub,
	})
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "local" {
		r.Static(cfg.Storage.LocalURLPrefix, cfg.Storage.LocalDir)
	}
	_ = r.Run(cfg.App.Addr)
}
