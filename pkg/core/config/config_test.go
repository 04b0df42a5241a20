package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	arcuserr "github.com/atistler/arcus/pkg/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "5s", 5 * time.Second, false},
		{"milliseconds", "1500ms", 1500 * time.Millisecond, false},
		{"complex", "1m30s", 90 * time.Second, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{5 * time.Second}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "5s" {
		t.Errorf("MarshalText() = %v, want 5s", string(result))
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.API.DefaultResponse != "json" {
		t.Errorf("API.DefaultResponse = %v, want json", cfg.API.DefaultResponse)
	}
	if cfg.HTTP.ConnectTimeout.Duration != time.Second {
		t.Errorf("HTTP.ConnectTimeout = %v, want 1s", cfg.HTTP.ConnectTimeout.Duration)
	}
	if cfg.HTTP.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("HTTP.ReadTimeout = %v, want 5s", cfg.HTTP.ReadTimeout.Duration)
	}
	if cfg.HTTP.RateBurst != 1 {
		t.Errorf("HTTP.RateBurst = %v, want 1", cfg.HTTP.RateBurst)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %v, want info", cfg.Log.Level)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvAPIURI, "")
	t.Setenv(EnvCatalog, "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[api]
uri = "http://cloud.local:8096/client/api"
default_response = "yaml"
verbose = true

[catalog]
path = "$ARCUS_TEST_DIR/commands.xml"
disable_cache = true

[http]
read_timeout = "10s"
rate_limit = 2.5
rate_burst = 3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ARCUS_TEST_DIR", dir)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source != path {
		t.Errorf("Source = %v, want %v", cfg.Source, path)
	}
	if cfg.API.URI != "http://cloud.local:8096/client/api" {
		t.Errorf("API.URI = %v", cfg.API.URI)
	}
	if cfg.API.DefaultResponse != "yaml" {
		t.Errorf("API.DefaultResponse = %v, want yaml", cfg.API.DefaultResponse)
	}
	if !cfg.API.Verbose {
		t.Error("API.Verbose should be true")
	}
	if cfg.Catalog.Path != filepath.Join(dir, "commands.xml") {
		t.Errorf("Catalog.Path = %v, want expanded path", cfg.Catalog.Path)
	}
	if !cfg.Catalog.DisableCache {
		t.Error("Catalog.DisableCache should be true")
	}
	if cfg.HTTP.ReadTimeout.Duration != 10*time.Second {
		t.Errorf("HTTP.ReadTimeout = %v, want 10s", cfg.HTTP.ReadTimeout.Duration)
	}
	if cfg.HTTP.ConnectTimeout.Duration != time.Second {
		t.Errorf("HTTP.ConnectTimeout = %v, want default 1s", cfg.HTTP.ConnectTimeout.Duration)
	}
	if cfg.HTTP.RateLimit != 2.5 || cfg.HTTP.RateBurst != 3 {
		t.Errorf("HTTP rate = %v/%v, want 2.5/3", cfg.HTTP.RateLimit, cfg.HTTP.RateBurst)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[api]\nuri = \"http://a/api\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIURI, "http://b/api")
	t.Setenv(EnvCatalog, "/tmp/other.xml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.URI != "http://b/api" {
		t.Errorf("API.URI = %v, want env override", cfg.API.URI)
	}
	if cfg.Catalog.Path != "/tmp/other.xml" {
		t.Errorf("Catalog.Path = %v, want env override", cfg.Catalog.Path)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !arcuserr.HasCode(err, arcuserr.CodeConfiguration) {
		t.Errorf("Load() error = %v, want configuration error", err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[api\nuri="), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !arcuserr.HasCode(err, arcuserr.CodeConfiguration) {
		t.Errorf("Load() error = %v, want configuration error", err)
	}
}

func TestLoadFromEnv_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	if err := os.WriteFile(path, []byte("[catalog]\npath = \"/x/commands.xml\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvCatalog, "")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Catalog.Path != "/x/commands.xml" {
		t.Errorf("Catalog.Path = %v", cfg.Catalog.Path)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.API.URI = "http://localhost:8096/client/api"
		cfg.Catalog.Path = "commands.xml"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing catalog", func(c *Config) { c.Catalog.Path = "" }, true},
		{"missing uri", func(c *Config) { c.API.URI = "" }, true},
		{"relative uri", func(c *Config) { c.API.URI = "/client/api" }, true},
		{"bad scheme", func(c *Config) { c.API.URI = "ftp://host/api" }, true},
		{"unknown response", func(c *Config) { c.API.DefaultResponse = "csv" }, true},
		{"negative rate", func(c *Config) { c.HTTP.RateLimit = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !arcuserr.HasCode(err, arcuserr.CodeConfiguration) {
				t.Errorf("Validate() code = %v, want CONFIGURATION", arcuserr.CodeOf(err))
			}
		})
	}
}

func TestIsResponseFormat(t *testing.T) {
	for _, f := range []string{"json", "object", "yaml", "prettyjson", "xml", "prettyxml"} {
		if !IsResponseFormat(f) {
			t.Errorf("IsResponseFormat(%q) = false", f)
		}
	}
	if IsResponseFormat("csv") {
		t.Error("IsResponseFormat(csv) = true")
	}
}
