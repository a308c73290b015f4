package config

import "testing"

func TestLoad_RequiredAndDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MONGO_DB_NAME", "")
	t.Setenv("ADMIN_INVITE_TOKEN", "")
	t.Setenv("CLIENT_URI", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.MongoDBName != "task_manager" {
		t.Errorf("MongoDBName = %q, want default", cfg.MongoDBName)
	}
	if cfg.ClientOrigin != "*" {
		t.Errorf("ClientOrigin = %q, want default", cfg.ClientOrigin)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want default", cfg.ServerPort)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_SECRET", "test-secret")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing MONGO_URI")
	}

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}
