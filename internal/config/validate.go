package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	required := []struct {
		key   string
		value string
	}{
		{"paths.source_dir", c.Paths.SourceDir},
		{"paths.upload_dir", c.Paths.UploadDir},
		{"paths.completed_dir", c.Paths.CompletedDir},
		{"paths.db_path", c.Paths.DBPath},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("%s is required", field.key)
		}
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.MinSizeMB < 0 {
		return errors.New("scan.min_size_mb must not be negative")
	}
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must list at least one extension")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	switch c.Notifications.Kind {
	case "discord", "ntfy":
	default:
		return fmt.Errorf("notifications.kind: unsupported value %q (use discord or ntfy)", c.Notifications.Kind)
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
