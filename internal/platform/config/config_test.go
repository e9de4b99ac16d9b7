package config

import "testing"

func validConfig() Config {
	return Config{
		Addr:               ":8080",
		DatabaseURL:        "postgres://localhost/leavedesk",
		Environment:        "development",
		MigrationsDir:      "migrations",
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 60,
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg := validConfig()
	cfg.DatabaseURL = "  "
	if err := cfg.Validate(); err == nil {
		t.Error("blank DATABASE_URL accepted")
	}

	cfg = validConfig()
	cfg.Environment = "production"
	cfg.RunSeed = true
	if err := cfg.Validate(); err == nil {
		t.Error("seeding in production accepted")
	}

	cfg = validConfig()
	cfg.MaxBodyBytes = 512
	if err := cfg.Validate(); err == nil {
		t.Error("tiny body limit accepted")
	}

	cfg = validConfig()
	cfg.RateLimitPerMinute = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero rate limit should disable throttling, got %v", err)
	}
	cfg.RateLimitPerMinute = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative rate limit accepted")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ADDR", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/leavedesk")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")

	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if !cfg.RunMigrations || !cfg.RunSeed || !cfg.MetricsEnabled {
		t.Errorf("boolean defaults wrong: %+v", cfg)
	}
	if cfg.RateLimitPerMinute != 60 {
		t.Errorf("RateLimitPerMinute = %d", cfg.RateLimitPerMinute)
	}
}
