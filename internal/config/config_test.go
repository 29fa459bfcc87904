package config

import (
	"os"
	"testing"
)

func unsetBuildEnv() {
	_ = os.Unsetenv("AGENTPAY_BUILD_TARGET")
	_ = os.Unsetenv("AGENTPAY_DB_DRIVER")
	_ = os.Unsetenv("AGENTPAY_POSTGRES_DSN")
}

func TestResolveDefaultsLocal(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("AGENTPAY_BUILD_TARGET", "local")
	defer unsetBuildEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("unexpected mapping for local: %s", cfg.DBDriver)
	}
}

func TestResolveDefaultsCloudDev(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("AGENTPAY_BUILD_TARGET", "cloud-dev")
	_ = os.Setenv("AGENTPAY_POSTGRES_DSN", "postgres://localhost/agentpay")
	defer unsetBuildEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("unexpected mapping for cloud-dev: %s", cfg.DBDriver)
	}
}

func TestResolveDefaultsOverride(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("AGENTPAY_BUILD_TARGET", "cloud")
	_ = os.Setenv("AGENTPAY_DB_DRIVER", "sqlite")
	defer unsetBuildEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("override failed, got %s", cfg.DBDriver)
	}
}

func TestResolveDefaultsRejectsUnknownTarget(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("AGENTPAY_BUILD_TARGET", "mainframe")
	defer unsetBuildEnv()

	if _, err := New(); err == nil {
		t.Fatal("want error for unknown build target")
	}
}

func TestPostgresRequiresDSN(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("AGENTPAY_BUILD_TARGET", "cloud")
	defer unsetBuildEnv()

	if _, err := New(); err == nil {
		t.Fatal("want error when postgres driver has no DSN")
	}
}

func TestConfigLoad_Defaults(t *testing.T) {
	unsetBuildEnv()
	_ = os.Unsetenv("AGENTPAY_HTTP_PORT")
	_ = os.Unsetenv("AGENTPAY_EVENT_BUS_BUFFER")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 8080 || cfg.EventBusBuffer != 256 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.GetHTTPAddr() != ":8080" {
		t.Fatalf("http addr: %s", cfg.GetHTTPAddr())
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("AGENTPAY_HTTP_PORT", "9191")
	defer func() { _ = os.Unsetenv("AGENTPAY_HTTP_PORT") }()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 9191 {
		t.Fatalf("port env override failed, got %d", cfg.HTTPPort)
	}
}
