package config

import (
	"os"

	"gorm.io/gorm"
)

// DB is the shared database handle, set once in main.
var DB *gorm.DB

// Getenv returns the environment variable or fallback when unset.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// JWTSecret is the HMAC key for signing and validating auth tokens.
func JWTSecret() []byte {
	return []byte(Getenv("JWT_SECRET", "your-secret-key"))
}

// GlobalLocationCode is the device code used when a config push does not name
// a location. Matches the single hardwired ESP32 deployment.
func GlobalLocationCode() string {
	return Getenv("GLOBAL_LOCATION_CODE", "khu-a-285")
}
