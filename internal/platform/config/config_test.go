package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.BasePath != "/api/v1" {
		t.Errorf("expected default base path /api/v1, got %s", cfg.Server.BasePath)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Catalog.BaseURL != defaultCatalogBaseURL {
		t.Errorf("unexpected catalog base url: %s", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.CacheTTL != defaultCatalogCacheTTL {
		t.Errorf("unexpected catalog cache ttl: %s", cfg.Catalog.CacheTTL)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("expected empty redis addr, got %s", cfg.Redis.Addr)
	}
	if cfg.Promo.CouponCode != "VIBE10" || cfg.Promo.CouponRate != 0.10 {
		t.Errorf("unexpected promo defaults: %+v", cfg.Promo)
	}
	if cfg.Wallet.InitialBalance != 1000.00 {
		t.Errorf("unexpected initial balance: %v", cfg.Wallet.InitialBalance)
	}
	if cfg.Orders.ShipmentDelay != 2*time.Second {
		t.Errorf("unexpected shipment delay: %s", cfg.Orders.ShipmentDelay)
	}
	if cfg.RateLimits.DefaultPerMinute != 120 {
		t.Errorf("unexpected default rate limit: %d", cfg.RateLimits.DefaultPerMinute)
	}
	if len(cfg.CORS.AllowedOrigins) != 0 {
		t.Errorf("expected no cors origins, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"API_SERVER_PORT":                "9090",
		"API_BASE_PATH":                  "/api/v2",
		"API_SERVER_READ_TIMEOUT":        "20s",
		"API_CATALOG_BASE_URL":           "http://localhost:9999",
		"API_CATALOG_TIMEOUT":            "3s",
		"API_CATALOG_CACHE_TTL":          "1m",
		"API_REDIS_ADDR":                 "localhost:6379",
		"API_REDIS_PASSWORD":             "hunter2",
		"API_REDIS_DB":                   "2",
		"API_PROMO_COUPON_CODE":          "SAVE20",
		"API_PROMO_COUPON_RATE":          "0.2",
		"API_WALLET_INITIAL_BALANCE":     "500",
		"API_ORDERS_SHIPMENT_DELAY":      "5s",
		"API_RATELIMIT_DEFAULT_PER_MIN":  "30",
		"API_RATELIMIT_MUTATING_PER_MIN": "10",
		"API_CORS_ALLOWED_ORIGINS":       "http://localhost:3000, http://localhost:5173",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" || cfg.Server.BasePath != "/api/v2" {
		t.Errorf("server overrides not applied: %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout != 20*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Catalog.BaseURL != "http://localhost:9999" || cfg.Catalog.Timeout != 3*time.Second {
		t.Errorf("catalog overrides not applied: %+v", cfg.Catalog)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.Password != "hunter2" || cfg.Redis.DB != 2 {
		t.Errorf("redis overrides not applied: %+v", cfg.Redis)
	}
	if cfg.Promo.CouponCode != "SAVE20" || cfg.Promo.CouponRate != 0.2 {
		t.Errorf("promo overrides not applied: %+v", cfg.Promo)
	}
	if cfg.Wallet.InitialBalance != 500 {
		t.Errorf("wallet override not applied: %v", cfg.Wallet.InitialBalance)
	}
	if cfg.Orders.ShipmentDelay != 5*time.Second {
		t.Errorf("shipment delay override not applied: %s", cfg.Orders.ShipmentDelay)
	}
	if cfg.RateLimits.DefaultPerMinute != 30 || cfg.RateLimits.MutatingPerMinute != 10 {
		t.Errorf("rate limit overrides not applied: %+v", cfg.RateLimits)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "http://localhost:5173" {
		t.Errorf("cors override not applied: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadValidationFailures(t *testing.T) {
	env := map[string]string{
		"API_PROMO_COUPON_RATE":     "1.5",
		"API_ORDERS_SHIPMENT_DELAY": "-1s",
		"API_BASE_PATH":             "api/v1",
	}

	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	fields := vErr.Fields()
	want := map[string]bool{"Promo.CouponRate": false, "Orders.ShipmentDelay": false, "Server.BasePath": false}
	for _, f := range fields {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("expected %s to be reported, got %v", name, fields)
		}
	}
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	contents := "# local overrides\nexport API_SERVER_PORT=7000\nAPI_PROMO_COUPON_CODE=\"LOCAL5\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}

	cfg, err := Load(WithEnvFile(path), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "7000" {
		t.Errorf("expected port from env file, got %s", cfg.Server.Port)
	}
	if cfg.Promo.CouponCode != "LOCAL5" {
		t.Errorf("expected coupon code from env file, got %s", cfg.Promo.CouponCode)
	}
}

func TestLoadEnvMapTakesPrecedenceOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("API_SERVER_PORT=7000\n"), 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}

	cfg, err := Load(WithEnvFile(path), WithEnvMap(map[string]string{"API_SERVER_PORT": "7001"}), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "7001" {
		t.Errorf("expected env map to win, got %s", cfg.Server.Port)
	}
}
