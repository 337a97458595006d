package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"nasflow/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The source, upload, and completed directories exist; the database file does
// not. Options are applied after defaults.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths = config.Paths{
		SourceDir:    filepath.Join(base, "source"),
		UploadDir:    filepath.Join(base, "uploads"),
		CompletedDir: filepath.Join(base, "completed"),
		DBPath:       filepath.Join(base, "state", "nasflow.db"),
	}
	for _, dir := range []string{cfgVal.Paths.SourceDir, cfgVal.Paths.UploadDir, cfgVal.Paths.CompletedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMinSizeMB overrides the detection threshold.
func WithMinSizeMB(mb float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.MinSizeMB = mb
	}
}

// WithExtensions overrides the qualifying extension list.
func WithExtensions(exts ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.Extensions = append([]string(nil), exts...)
	}
}

// WithWebhook sets the notification transport and endpoint.
func WithWebhook(kind, url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.Kind = kind
		b.cfg.Notifications.WebhookURL = url
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SourceDir)
}
