package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Env carries all process configuration. It is loaded once at startup and
// passed by value to constructors; secrets are never read from globals.
type Env struct {
	AppAddr string
	GinMode string
	Debug   bool

	DBUser string
	DBPass string
	DBHost string
	DBName string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	RazorpayKeyID  string
	RazorpaySecret string
	RazorpayBase   string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// Operator timezone. Booking times are stored as formatted strings in
	// this zone so date-range queries stay string-comparable.
	TimezoneName string
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	return Env{
		AppAddr: appAddr,
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),
		Debug:   envBool("BUSGO_DEBUG", false),

		DBUser: envOrDefault("DB_USER", "root"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: envOrDefault("DB_HOST", "127.0.0.1:3306"),
		DBName: envOrDefault("DB_NAME", "busgo"),

		AccessTokenSecret:  envOrDefault("ACCESS_TOKEN_SECRET", "super-secret-key-change-me"),
		RefreshTokenSecret: envOrDefault("REFRESH_TOKEN_SECRET", "another-secret-key-change-me"),
		AccessTokenTTL:     envDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTokenTTL:    envDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		RazorpayKeyID:  os.Getenv("RAZORPAY_KEY_ID"),
		RazorpaySecret: os.Getenv("RAZORPAY_SECRET"),
		RazorpayBase:   envOrDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: envInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: envOrDefault("MAIL_FROM", "no-reply@busgo.example"),

		TimezoneName: envOrDefault("BUSGO_TZ", "Asia/Kolkata"),
	}
}

// Location resolves the operator timezone, falling back to UTC when the
// zone database does not know the configured name.
func (e Env) Location() *time.Location {
	loc, err := time.LoadLocation(e.TimezoneName)
	if err != nil {
		return time.UTC
	}
	return loc
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
