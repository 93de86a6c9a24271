package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Session SessionConfig
	SMTP    SMTPConfig
	Storage StorageConfig
	S3      S3Config
	Reset   ResetConfig
}

type AppConfig struct {
	Addr string
	Env  string // dev|prod
}

type DBConfig struct {
	DSN string
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

type SMTPConfig struct {
	Host          string
	Port          string
	User          string
	Pass          string
	TLSMode       string // "", "tls", "starttls"
	SkipVerifyTLS bool
	FromName      string
	FromAddr      string
}

type StorageConfig struct {
	Driver         string // local|s3
	LocalDir       string
	LocalURLPrefix string
}

type S3Config struct {
	Region        string
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

type ResetConfig struct {
	// LoginURL is embedded in the password reset link as the continue target.
	LoginURL string
}

// Load reads configuration from the environment. DB_DSN is the only hard
// requirement; everything else has a dev default.
func Load() (Config, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return Config{}, fmt.Errorf("config: DB_DSN environment variable is required")
	}

	cfg := Config{
		App: AppConfig{
			Addr: envOr("APP_ADDR", ":8080"),
			Env:  envOr("APP_ENV", "dev"),
		},
		DB: DBConfig{DSN: dsn},
		Session: SessionConfig{
			CookieName: envOr("SESSION_COOKIE", "ua_admin_session"),
			TTL:        envDuration("SESSION_TTL", 24*time.Hour),
			Secure:     envBool("SESSION_SECURE", false),
		},
		SMTP: SMTPConfig{
			Host:          envOr("SMTP_HOST", "localhost"),
			Port:          envOr("SMTP_PORT", "1025"),
			User:          os.Getenv("SMTP_USER"),
			Pass:          os.Getenv("SMTP_PASS"),
			TLSMode:       os.Getenv("SMTP_TLS_MODE"),
			SkipVerifyTLS: envBool("SMTP_SKIP_VERIFY_TLS", false),
			FromName:      envOr("SMTP_FROM_NAME", "Ujaas Aroma Admin Portal"),
			FromAddr:      envOr("SMTP_FROM_ADDR", "no-reply@ujaasaroma.com"),
		},
		Storage: StorageConfig{
			Driver:         envOr("STORAGE_DRIVER", "local"),
			LocalDir:       envOr("LOCAL_UPLOAD_DIR", "./storage/uploads"),
			LocalURLPrefix: envOr("LOCAL_UPLOAD_URL_PREFIX", "/uploads"),
		},
		S3: S3Config{
			Region:        envOr("S3_REGION", "ap-south-1"),
			Bucket:        os.Getenv("S3_BUCKET"),
			Prefix:        envOr("S3_PREFIX", "products"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		},
		Reset: ResetConfig{
			LoginURL: envOr("RESET_LOGIN_URL", "https://admin.ujaasaroma.com/login"),
		},
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
