package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every environment-level option the server recognizes.
type Config struct {
	MongoURI         string
	MongoDBName      string
	JWTSecret        string
	AdminInviteToken string
	ClientOrigin     string
	ServerPort       string
}

// Load reads .env if present and then the process environment. MONGO_URI and
// JWT_SECRET are required; everything else has a usable default.
func Load() (*Config, error) {
	// A missing .env is fine in deployments that inject real env vars.
	_ = godotenv.Load(".env")

	cfg := &Config{
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDBName:      os.Getenv("MONGO_DB_NAME"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		AdminInviteToken: os.Getenv("ADMIN_INVITE_TOKEN"),
		ClientOrigin:     os.Getenv("CLIENT_URI"),
		ServerPort:       os.Getenv("SERVER_PORT"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	if cfg.MongoDBName == "" {
		cfg.MongoDBName = "task_manager"
	}
	if cfg.ClientOrigin == "" {
		cfg.ClientOrigin = "*"
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	return cfg, nil
}
