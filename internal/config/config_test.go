package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"nasflow/internal/config"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "nasflow.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingDefaultConfigReturnsNotFound(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	_, resolved, err := config.Load("")
	if !errors.Is(err, config.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	want := filepath.Join(tempHome, ".config", "nasflow", "config.toml")
	if resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
}

func TestLoadMissingCustomPathReturnsNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	if _, _, err := config.Load(path); !errors.Is(err, config.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadCustomPathAppliesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := writeConfig(t, tempDir, `
[paths]
source_dir = "src"
upload_dir = "/srv/uploads"
completed_dir = "/srv/completed"
db_path = "~/state/nasflow.db"
`)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("NASFLOW_WEBHOOK_URL", "")

	cfg, resolved, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if !filepath.IsAbs(cfg.Paths.SourceDir) {
		t.Fatalf("expected absolute source dir, got %q", cfg.Paths.SourceDir)
	}
	if cfg.Paths.DBPath != filepath.Join(tempHome, "state", "nasflow.db") {
		t.Fatalf("unexpected db path: %q", cfg.Paths.DBPath)
	}
	if cfg.Scan.MinSizeMB != 100 {
		t.Fatalf("expected default min size 100, got %g", cfg.Scan.MinSizeMB)
	}
	if cfg.MinSizeBytes() != 100*1024*1024 {
		t.Fatalf("unexpected min size bytes: %d", cfg.MinSizeBytes())
	}
	wantExts := []string{".mp4", ".mov", ".MP4", ".MOV"}
	if !reflect.DeepEqual(cfg.Scan.Extensions, wantExts) {
		t.Fatalf("unexpected extensions: %v", cfg.Scan.Extensions)
	}
	if cfg.Notifications.Kind != "discord" {
		t.Fatalf("expected discord notifier by default, got %q", cfg.Notifications.Kind)
	}
	if cfg.Notifications.RequestTimeout != 10 {
		t.Fatalf("unexpected request timeout: %d", cfg.Notifications.RequestTimeout)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.LogFile() != "" {
		t.Fatalf("expected file logging disabled, got %q", cfg.LogFile())
	}
	if cfg.LockPath() != cfg.Paths.DBPath+".lock" {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
}

func TestLoadRoundTripsEncodedConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths = config.Paths{
		SourceDir:    "/data/video",
		UploadDir:    "/data/uploads",
		CompletedDir: "/data/completed",
		DBPath:       "/data/state/nasflow.db",
	}
	cfg.Scan.MinSizeMB = 250
	cfg.Scan.Extensions = []string{" .mkv ", ".mkv", ".MKV", ""}
	cfg.Notifications.Kind = "NTFY"
	cfg.Notifications.WebhookURL = "https://ntfy.example/topic"

	encoded, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := writeConfig(t, t.TempDir(), string(encoded))

	loaded, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Scan.MinSizeMB != 250 {
		t.Fatalf("unexpected min size: %g", loaded.Scan.MinSizeMB)
	}
	if !reflect.DeepEqual(loaded.Scan.Extensions, []string{".mkv", ".MKV"}) {
		t.Fatalf("expected trimmed, deduped, case-preserving extensions, got %v", loaded.Scan.Extensions)
	}
	if loaded.Notifications.Kind != "ntfy" {
		t.Fatalf("expected lowercase kind, got %q", loaded.Notifications.Kind)
	}
}

func TestLoadRejectsMissingRequiredPaths(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantKey string
	}{
		{
			name: "db_path",
			body: `[paths]
source_dir = "/a"
upload_dir = "/b"
completed_dir = "/c"
`,
			wantKey: "paths.db_path",
		},
		{
			name: "source_dir",
			body: `[paths]
upload_dir = "/b"
completed_dir = "/c"
db_path = "/d/db"
`,
			wantKey: "paths.source_dir",
		},
		{
			name: "completed_dir",
			body: `[paths]
source_dir = "/a"
upload_dir = "/b"
db_path = "/d/db"
`,
			wantKey: "paths.completed_dir",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tc.body)
			_, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantKey) {
				t.Fatalf("expected error to mention %s, got %v", tc.wantKey, err)
			}
		})
	}
}

func TestLoadMissingDBPathHasNoSideEffects(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `[paths]
source_dir = "/a"
upload_dir = "/b"
completed_dir = "/c"

[logging]
dir = "`+filepath.ToSlash(filepath.Join(dir, "logs"))+`"
`)
	if _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the config file in %s, found %d entries", dir, len(entries))
	}
}

func TestLoadAcceptsFractionalMinSize(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `[paths]
source_dir = "/a"
upload_dir = "/b"
completed_dir = "/c"
db_path = "`+filepath.ToSlash(filepath.Join(dir, "nasflow.db"))+`"

[scan]
min_size_mb = 0.5
`)
	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Scan.MinSizeMB != 0.5 {
		t.Fatalf("unexpected min size: %g", cfg.Scan.MinSizeMB)
	}
	if cfg.MinSizeBytes() != 512*1024 {
		t.Fatalf("expected half a mebibyte, got %d bytes", cfg.MinSizeBytes())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() config.Config {
		cfg := config.Default()
		cfg.Paths = config.Paths{SourceDir: "/a", UploadDir: "/b", CompletedDir: "/c", DBPath: "/d"}
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"negative size", func(c *config.Config) { c.Scan.MinSizeMB = -1 }},
		{"no extensions", func(c *config.Config) { c.Scan.Extensions = nil }},
		{"unknown kind", func(c *config.Config) { c.Notifications.Kind = "slack" }},
		{"zero timeout", func(c *config.Config) { c.Notifications.RequestTimeout = 0 }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := base()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestWebhookURLFallsBackToEnv(t *testing.T) {
	t.Setenv("NASFLOW_WEBHOOK_URL", " https://discord.example/api/webhooks/1/abc ")
	path := writeConfig(t, t.TempDir(), `[paths]
source_dir = "/a"
upload_dir = "/b"
completed_dir = "/c"
db_path = "/d/db"
`)
	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Notifications.WebhookURL != "https://discord.example/api/webhooks/1/abc" {
		t.Fatalf("unexpected webhook url: %q", cfg.Notifications.WebhookURL)
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	t.Setenv("HOME", t.TempDir())
	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if cfg.Paths.SourceDir != "/volume1/video" {
		t.Fatalf("unexpected sample source dir: %q", cfg.Paths.SourceDir)
	}
}
