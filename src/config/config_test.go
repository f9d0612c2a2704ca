package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got: %s", cfg.Port)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected default shutdown timeout 10s, got: %v", cfg.ShutdownTimeout)
	}
	if cfg.RateLimit.Max != 100 || cfg.RateLimit.Window != time.Second {
		t.Errorf("Unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Depth.Default != 10 || cfg.Depth.Max != 1000 {
		t.Errorf("Unexpected depth defaults: %+v", cfg.Depth)
	}

	if cfg.Book.MinPrice != 0.01 {
		t.Errorf("Expected min price 0.01, got: %v", cfg.Book.MinPrice)
	}
	if cfg.Book.MaxPrice != 1_000_000.0 {
		t.Errorf("Expected max price 1000000, got: %v", cfg.Book.MaxPrice)
	}
	if cfg.Book.MaxQuantity != 1_000_000 {
		t.Errorf("Expected max quantity 1000000, got: %d", cfg.Book.MaxQuantity)
	}
	if cfg.Book.BlockSize != 1024 {
		t.Errorf("Expected block size 1024, got: %d", cfg.Book.BlockSize)
	}
	if cfg.Book.MatchOnAmend {
		t.Error("Match-on-amend must default to off")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("BOOK_MAX_QUANTITY", "500")
	t.Setenv("BOOK_MATCH_ON_AMEND", "true")
	t.Setenv("RATE_LIMIT_MAX", "7")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Expected port 3000, got: %s", cfg.Port)
	}
	if cfg.Book.MaxQuantity != 500 {
		t.Errorf("Expected max quantity 500, got: %d", cfg.Book.MaxQuantity)
	}
	if !cfg.Book.MatchOnAmend {
		t.Error("Expected match-on-amend enabled")
	}
	if cfg.RateLimit.Max != 7 {
		t.Errorf("Expected rate limit max 7, got: %d", cfg.RateLimit.Max)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got: %s", cfg.Log.Level)
	}
}

func TestBookEngineConversion(t *testing.T) {
	b := Book{MinPrice: 1, MaxPrice: 2, MaxQuantity: 3, BlockSize: 4, MatchOnAmend: true}
	e := b.Engine()

	if e.MinPrice != 1 || e.MaxPrice != 2 || e.MaxQuantity != 3 || e.BlockSize != 4 || !e.MatchOnAmend {
		t.Errorf("Conversion dropped fields: %+v", e)
	}
}
