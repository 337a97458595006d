package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"nasflow/internal/config"
)

// Options describes logger construction parameters. Outputs name "stderr",
// "stdout", or a log file path; an empty list logs to stderr.
type Options struct {
	Level   string
	Format  string
	Outputs []string
}

// New constructs a slog logger using the provided options. Caller locations
// are included only at debug level.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)

	var handler func(io.Writer, bool) slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		handler = func(w io.Writer, tty bool) slog.Handler {
			return newConsoleHandler(w, level, level <= slog.LevelDebug, tty)
		}
	case "json":
		handler = func(w io.Writer, _ bool) slog.Handler {
			return newJSONHandler(w, level, level <= slog.LevelDebug)
		}
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	w, tty, err := openOutputs(opts.Outputs)
	if err != nil {
		return nil, err
	}
	return slog.New(handler(w, tty)), nil
}

// NewFromConfig creates a logger using application config. Output always goes
// to stderr and additionally to the configured log file.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}
	outputs := []string{"stderr"}
	if logFile := cfg.LogFile(); logFile != "" {
		outputs = append(outputs, logFile)
	}
	return New(Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Outputs: outputs,
	})
}

// parseLevel maps config level names onto slog levels, defaulting to info.
func parseLevel(name string) slog.Level {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "warning") {
		name = "warn"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// openOutputs combines the named outputs into one writer. The second result
// reports whether every destination is a terminal, which enables color.
func openOutputs(outputs []string) (io.Writer, bool, error) {
	var writers []io.Writer
	tty := true
	seen := make(map[string]bool, len(outputs))

	for _, name := range outputs {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case "stderr":
			writers = append(writers, os.Stderr)
			tty = tty && terminal(os.Stderr)
		case "stdout":
			writers = append(writers, os.Stdout)
			tty = tty && terminal(os.Stdout)
		default:
			file, err := openLogFile(name)
			if err != nil {
				return nil, false, err
			}
			writers = append(writers, file)
			tty = false
		}
	}

	if len(writers) == 0 {
		return os.Stderr, terminal(os.Stderr), nil
	}
	if len(writers) == 1 {
		return writers[0], tty, nil
	}
	return io.MultiWriter(writers...), tty, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

func terminal(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newJSONHandler emits one object per line with a UTC "ts" key and lowercase
// levels.
func newJSONHandler(w io.Writer, level slog.Leveler, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return attr
			}
			switch attr.Key {
			case slog.TimeKey:
				if attr.Value.Kind() == slog.KindTime {
					return slog.String("ts", attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				return slog.String(slog.LevelKey, strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	})
}
