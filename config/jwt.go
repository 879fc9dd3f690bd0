package config

import (
	"os"
	"time"

	"asso-cms/models"
)

// MinJWTSecretLen is the minimum byte length of the signing secret. A missing
// or shorter secret is a server misconfiguration, never silently downgraded.
const MinJWTSecretLen = 32

var JWTSecret []byte
var JWTExpiration = 7 * 24 * time.Hour

// LoadJWT reads the signing secret from the environment. Called from main
// after godotenv so .env values are visible.
func LoadJWT() {
	JWTSecret = []byte(os.Getenv("JWT_SECRET"))
}

// CheckJWTSecret reports whether the signing secret is usable.
func CheckJWTSecret() error {
	if len(JWTSecret) < MinJWTSecretLen {
		return models.ErrorInternalServer{Message: "server configuration error"}
	}
	return nil
}
