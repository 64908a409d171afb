package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// MustRequired stops the process when a setting the server cannot run without is missing.
func (c Config) MustRequired() {
	MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	MustNonEmptyBytes(c.JWTSecret, "JWT_SECRET")
	if c.SMTPHost != "" {
		MustNonEmpty(c.EmailFrom, "EMAIL_FROM")
	}
}
