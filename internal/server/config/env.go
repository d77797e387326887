package config

import (
	"os"
	"time"
)

// parseEnv overlays Config fields from environment variables. Unset variables
// leave the current value untouched.
//
// Recognized variables:
//
//	ADDRESS                  HTTP bind address
//	DATABASE_DSN             PostgreSQL DSN
//	JWT_SECRET               token signing secret
//	FULL_TOKEN_TTL           full session lifetime (Go duration string)
//	RESTRICTED_TOKEN_TTL     restricted session lifetime (Go duration string)
//	ADMIN_EMAIL              bootstrap administrator email
//	ADMIN_PASSWORD           bootstrap administrator temporary password
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
func parseEnv(config *Config) {
	setString := func(key string, target *string) {
		if v, ok := os.LookupEnv(key); ok {
			*target = v
		}
	}
	setDuration := func(key string, target *time.Duration) {
		if v, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*target = d
			}
		}
	}

	setString("ADDRESS", &config.EndpointAddr)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("JWT_SECRET", &config.SecretKey)
	setDuration("FULL_TOKEN_TTL", &config.FullTokenValidityDuration)
	setDuration("RESTRICTED_TOKEN_TTL", &config.RestrictedTokenValidityDuration)
	setString("ADMIN_EMAIL", &config.AdminEmail)
	setString("ADMIN_PASSWORD", &config.AdminPassword)
	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
}
