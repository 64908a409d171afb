package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string
	AppName     string
	FrontendURL string

	DatabaseURL string

	JWTSecret    []byte
	JWTExpiresIn time.Duration
	CookieSecure bool

	CORSAllowedOrigins []string
	CSRFEnabled        bool

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int

	SMTPHost      string
	SMTPPort      int
	EmailUser     string
	EmailPassword string
	EmailFrom     string

	OTPTTL        time.Duration
	OTPSendLimit  int
	OTPSendWindow time.Duration
	ResetTokenTTL time.Duration
}

var defaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"http://localhost:3000",
	"http://localhost:3001",
}

func Load() Config {
	origins := CSV(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if len(origins) == 0 {
		origins = defaultOrigins
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "storefront"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 3000),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		AppName:     EnvDefault("APP_NAME", "Storefront"),
		FrontendURL: EnvDefault("FRONTEND_URL", "http://localhost:5173"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
		JWTExpiresIn: EnvDurationDefault("JWT_EXPIRES_IN", 24*time.Hour),
		CookieSecure: EnvBoolDefault("COOKIE_SECURE", true),

		CORSAllowedOrigins: origins,
		CSRFEnabled:        EnvBoolDefault("CSRF_ENABLED", false),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       EnvIntDefault("REDIS_DB", 0),
		RedisPoolSize: EnvIntDefault("REDIS_POOL_SIZE", 10),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      EnvIntDefault("SMTP_PORT", 587),
		EmailUser:     os.Getenv("EMAIL_USER"),
		EmailPassword: os.Getenv("EMAIL_APP_PASSWORD"),
		EmailFrom:     os.Getenv("EMAIL_FROM"),

		OTPTTL:        EnvDurationDefault("OTP_TTL", 10*time.Minute),
		OTPSendLimit:  EnvIntDefault("OTP_SEND_LIMIT", 5),
		OTPSendWindow: EnvDurationDefault("OTP_SEND_WINDOW", 15*time.Minute),
		ResetTokenTTL: EnvDurationDefault("RESET_TOKEN_TTL", time.Hour),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
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

// EnvDurationDefault accepts Go durations ("15m") and the "<n>d" form used for token lifetimes.
func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if strings.HasSuffix(v, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(v, "d"))
		if err != nil || n <= 0 {
			return def
		}
		return time.Duration(n) * 24 * time.Hour
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
