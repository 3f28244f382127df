// Package config provides configuration management for the blog API.
// It handles loading and validation of configuration values from environment
// variables, with support for required variables, default values, and
// collective error reporting: every problem found during loading is reported
// at once instead of failing on the first one.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// MongoConfig holds the connection settings for the document store.
type MongoConfig struct {
	URI      string // e.g. mongodb://localhost:27017
	Database string // Database name holding the users and posts collections
}

// AuthConfig holds authentication-related configuration.
// The signing secret is deliberately a required variable with no default:
// the process must not start with a guessable or hardcoded secret.
type AuthConfig struct {
	JWTSecret        string        // Secret key for signing JWTs
	SigningAlgorithm string        // Symmetric signing algorithm identifier, HS256 by default
	TokenDuration    time.Duration // Lifetime of issued access tokens
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string // Port for the HTTP server
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Mongo  *MongoConfig
	Auth   *AuthConfig
	Server *ServerConfig
}

// defaultTokenDuration matches the reference deployment's 180 minute tokens.
const defaultTokenDuration = 180 * time.Minute

// getRequiredEnv reads a required environment variable, appending to the
// errors slice when it is absent so all missing variables surface together.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// getOptionalEnv reads an optional environment variable with a default.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getOptionalEnvDuration reads an optional environment variable parsed as a
// time.Duration ("45m", "3h"). Uses defaultValue if unset; appends an error
// if the value is present but unparseable.
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// LoadConfig creates and returns an AppConfig by reading and validating
// environment variables. It collects all errors encountered during loading
// and returns a single aggregated error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Document store configuration
	mongoURI := getOptionalEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDB := getRequiredEnv("MONGO_DATABASE", &errors)

	mongoConfig := &MongoConfig{
		URI:      mongoURI,
		Database: mongoDB,
	}

	// Auth configuration
	jwtSecret := getRequiredEnv("JWT_SECRET", &errors)
	signingAlgorithm := getOptionalEnv("JWT_ALGORITHM", "HS256")
	tokenDuration := getOptionalEnvDuration("JWT_TOKEN_DURATION", defaultTokenDuration, &errors)

	// Only the HMAC family is supported; the token service rejects anything
	// else at validation time as well.
	if signingAlgorithm != "HS256" && signingAlgorithm != "HS384" && signingAlgorithm != "HS512" {
		errors = append(errors, fmt.Sprintf("invalid value for JWT_ALGORITHM: expected HS256, HS384 or HS512, got '%s'", signingAlgorithm))
	}

	authConfig := &AuthConfig{
		JWTSecret:        jwtSecret,
		SigningAlgorithm: signingAlgorithm,
		TokenDuration:    tokenDuration,
	}

	// Server configuration
	serverPort := getOptionalEnv("PORT", "8080")
	serverConfig := &ServerConfig{
		Port: serverPort,
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		Mongo:  mongoConfig,
		Auth:   authConfig,
		Server: serverConfig,
	}, nil
}
