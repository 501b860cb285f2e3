package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.Environment != "dev" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "dev")
	}
	if cfg.TablePrefix != "dev_" {
		t.Errorf("TablePrefix = %q, want %q", cfg.TablePrefix, "dev_")
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("JWTExpiry = %v, want 24h", cfg.JWTExpiry)
	}
	if cfg.BlobBackend != "disk" {
		t.Errorf("BlobBackend = %q, want %q", cfg.BlobBackend, "disk")
	}
}

func TestTablePrefixFollowsEnvironment(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{env: "dev", want: "dev_"},
		{env: "test", want: "test_"},
		{env: "prod", want: "prod_"},
		{env: "staging", want: "dev_"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", tt.env)
			cfg := Load()
			if cfg.TablePrefix != tt.want {
				t.Errorf("TablePrefix = %q, want %q", cfg.TablePrefix, tt.want)
			}
		})
	}
}

func TestTablePrefixOverride(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("TABLE_PREFIX", "custom_")

	cfg := Load()
	if cfg.TablePrefix != "custom_" {
		t.Errorf("TablePrefix = %q, want %q", cfg.TablePrefix, "custom_")
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("BLOB_BACKEND", "s3")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9090")
	}
	if cfg.JWTExpiry != time.Hour {
		t.Errorf("JWTExpiry = %v, want 1h", cfg.JWTExpiry)
	}
	if cfg.BlobBackend != "s3" {
		t.Errorf("BlobBackend = %q, want %q", cfg.BlobBackend, "s3")
	}
}
