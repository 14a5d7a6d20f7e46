package config

import (
	"os"
	"testing"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected default port: %q", cfg.Port)
	}
	if cfg.OpenAITextModel == "" || cfg.OpenAIVisionModel == "" {
		t.Fatal("model defaults missing")
	}
	if cfg.AITimeout <= 0 {
		t.Fatalf("ai timeout default missing: %v", cfg.AITimeout)
	}
	if cfg.MaxUploadBytes() != 10<<20 {
		t.Fatalf("unexpected upload ceiling: %d", cfg.MaxUploadBytes())
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	chdirTemp(t)
	content := "PORT=9999\nMAX_UPLOAD_MB=2\nCORS_ALLOWED_ORIGINS=http://a.example, http://b.example\n"
	if err := os.WriteFile(".env", []byte(content), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9999" {
		t.Fatalf("env file port not applied: %q", cfg.Port)
	}
	if cfg.MaxUploadBytes() != 2<<20 {
		t.Fatalf("unexpected upload ceiling: %d", cfg.MaxUploadBytes())
	}
	origins := cfg.AllowedOrigins()
	if len(origins) != 2 || origins[0] != "http://a.example" || origins[1] != "http://b.example" {
		t.Fatalf("unexpected origins: %v", origins)
	}
}

func TestAllowedOriginsWildcard(t *testing.T) {
	cfg := Config{CORSAllowed: "*"}
	origins := cfg.AllowedOrigins()
	if len(origins) != 1 || origins[0] != "*" {
		t.Fatalf("unexpected origins: %v", origins)
	}
}
