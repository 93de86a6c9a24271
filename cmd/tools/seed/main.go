// Seed prepares a fresh database: it creates the schema and the first admin
// account so someone can sign in to the portal.
//
//	go run ./cmd/tools/seed -email admin@ujaasaroma.com -password secret -name "Admin"
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/auth"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/middleware"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/users"
)

func main() {
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	name := flag.String("name", "Admin", "display name")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := docstore.Migrate(db); err != nil {
		log.Fatalf("migrate documents: %v", err)
	}
	if err := db.AutoMigrate(&auth.Account{}, &middleware.Session{}); err != nil {
		log.Fatalf("migrate auth tables: %v", err)
	}

	ctx := context.Background()
	gw := docstore.NewSQLStore(db, logger)
	defer gw.Close()

	svc := auth.NewService(db, gw, logger)
	acct, err := svc.CreateAccount(ctx, *email, *password)
	if err != nil {
		log.Fatalf("create account: %v", err)
	}

	// The portal resolves admin access from the users collection, so the
	// account needs a matching document with the admin flag set.
	id, err := gw.Create(ctx, users.Collection, docstore.Fields{
		"name":          *name,
		"email":         *email,
		"admin":         1,
		"emailVerified": 1,
	})
	if err != nil {
		log.Fatalf("create admin user document: %v", err)
	}

	logger.Info("seeded admin", "account_id", acct.ID, "user_doc_id", id, "email", *email)
}
