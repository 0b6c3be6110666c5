package configparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type dbConfig struct {
	Host     string        `koanf:"host"`
	Port     int           `koanf:"port"`
	MaxConns int32         `koanf:"max_conns"`
	Idle     time.Duration `koanf:"idle"`
}

type testConfig struct {
	Mode     string   `koanf:"mode"`
	Database dbConfig `koanf:"database"`
}

func defaults() testConfig {
	return testConfig{
		Mode: "running-service",
		Database: dbConfig{
			Host:     "localhost",
			Port:     5432,
			MaxConns: 10,
			Idle:     time.Minute,
		},
	}
}

var sections = []string{"mode", "database"}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	if err := Load(&cfg, Options{Defaults: defaults(), Sections: sections}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg != defaults() {
		t.Fatalf("got %+v, want defaults", cfg)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := "database:\n  host: db.internal\n  max_conns: 50\n  idle: 5m\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DATABASE_HOST", "db.override")
	t.Setenv("MODE", "custom")

	var cfg testConfig
	if err := Load(&cfg, Options{Defaults: defaults(), FilePath: path, Sections: sections}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.Host != "db.override" {
		t.Errorf("host = %q, env must win over file", cfg.Database.Host)
	}
	if cfg.Database.MaxConns != 50 {
		t.Errorf("max_conns = %d, want 50 from file", cfg.Database.MaxConns)
	}
	if cfg.Database.Idle != 5*time.Minute {
		t.Errorf("idle = %v, want 5m from file", cfg.Database.Idle)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("port = %d, want default", cfg.Database.Port)
	}
	if cfg.Mode != "custom" {
		t.Errorf("mode = %q, want custom", cfg.Mode)
	}
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg, Options{
		Defaults: defaults(),
		FilePath: filepath.Join(t.TempDir(), "absent.yaml"),
		EnvFile:  filepath.Join(t.TempDir(), "absent.env"),
		Sections: sections,
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoad_NilDestination(t *testing.T) {
	if err := Load(nil, Options{}); err != ErrNilDestination {
		t.Fatalf("err = %v, want ErrNilDestination", err)
	}
}

func TestEnvKeyMapper(t *testing.T) {
	m := EnvKeyMapper([]string{"mode", "database", "http_client"})

	cases := map[string]string{
		"DATABASE_HOST":               "database.host",
		"DATABASE_MAX_CONNS":          "database.max_conns",
		"HTTP_CLIENT_CONNECT_TIMEOUT": "http_client.connect_timeout",
		"MODE":                        "mode",
		"PATH":                        "",
		"DATABASE_":                   "",
	}
	for in, want := range cases {
		if got := m(in); got != want {
			t.Errorf("%s -> %q, want %q", in, got, want)
		}
	}
}
