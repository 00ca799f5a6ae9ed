package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("product-aggregator")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Metrics.Prefix != "product-aggregator" {
		t.Fatalf("expected metrics prefix from service name, got %s", cfg.Metrics.Prefix)
	}
	if cfg.Offers.RefreshInterval != 60*time.Second {
		t.Fatalf("expected 60s refresh interval, got %v", cfg.Offers.RefreshInterval)
	}
	if cfg.Offers.HTTPTimeout <= 0 {
		t.Fatalf("expected positive HTTP timeout, got %v", cfg.Offers.HTTPTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("OFFERS_BASE_URL", "http://offers.internal:8081")
	t.Setenv("OFFERS_REFRESH_INTERVAL", "5s")
	t.Setenv("OFFERS_ACCESS_TOKEN", "prov-token")

	cfg, err := Load("product-aggregator")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9999" {
		t.Fatalf("expected port override, got %s", cfg.Server.Port)
	}
	if cfg.Offers.BaseURL != "http://offers.internal:8081" {
		t.Fatalf("expected base url override, got %s", cfg.Offers.BaseURL)
	}
	if cfg.Offers.RefreshInterval != 5*time.Second {
		t.Fatalf("expected 5s interval, got %v", cfg.Offers.RefreshInterval)
	}
	if cfg.Offers.AccessToken != "prov-token" {
		t.Fatalf("expected pre-provisioned token, got %q", cfg.Offers.AccessToken)
	}
}

func TestLoadRejectsBadDurations(t *testing.T) {
	t.Setenv("OFFERS_REFRESH_INTERVAL", "-10s")
	if _, err := Load("product-aggregator"); err == nil {
		t.Fatal("expected error for negative refresh interval")
	}
}
