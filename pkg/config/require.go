package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

// Validate enforces the settings the server cannot start without.
func (c Config) Validate() {
	MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	MustNonEmpty(c.JWT.Secret, "JWT_SECRET")
}
