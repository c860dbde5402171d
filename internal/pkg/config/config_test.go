package config

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
)

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		access  string
		refresh string
		wantErr bool
	}{
		{"both set and distinct", "access-secret", "refresh-secret", false},
		{"missing access secret", "", "refresh-secret", true},
		{"missing refresh secret", "access-secret", "", true},
		{"identical secrets", "same-secret", "same-secret", true},
		{"both missing", "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{JWT: JWTConfig{AccessSecret: tc.access, RefreshSecret: tc.refresh}}
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_RedisEnv(t *testing.T) {
	var cfg Config
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target: &cfg,
		Lookuper: envconfig.MapLookuper(map[string]string{
			"REDIS_ADDR":     "cache:6380",
			"REDIS_PASSWORD": "hunter2",
			"REDIS_DB":       "3",
		}),
	})
	if err != nil {
		t.Fatalf("envconfig failed: %v", err)
	}
	if cfg.Redis.Addr != "cache:6380" || cfg.Redis.Password != "hunter2" || cfg.Redis.DB != 3 {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}

	var defaults Config
	err = envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &defaults,
		Lookuper: envconfig.MapLookuper(map[string]string{}),
	})
	if err != nil {
		t.Fatalf("envconfig failed: %v", err)
	}
	if defaults.Redis.Addr != "localhost:6379" || defaults.Redis.Password != "" || defaults.Redis.DB != 0 {
		t.Fatalf("unexpected redis defaults: %+v", defaults.Redis)
	}
}

func TestConfig_IsProduction(t *testing.T) {
	if (&Config{Env: "development"}).IsProduction() {
		t.Fatalf("development must not be production")
	}
	if !(&Config{Env: "production"}).IsProduction() {
		t.Fatalf("production not detected")
	}
}
