package config

const (
	defaultMinSizeMB          = 100
	defaultNotificationKind   = "discord"
	defaultNotifyTimeout      = 10
	defaultNotificationAuthor = "NAS Workflow Manager"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// defaultExtensions lists both case variants because matching is case-sensitive.
var defaultExtensions = []string{".mp4", ".mov", ".MP4", ".MOV"}

// Default returns a Config populated with repository defaults. Directory paths
// have no defaults; they must come from the configuration file.
func Default() Config {
	return Config{
		Scan: Scan{
			MinSizeMB:  defaultMinSizeMB,
			Extensions: append([]string(nil), defaultExtensions...),
		},
		Notifications: Notifications{
			Kind:           defaultNotificationKind,
			RequestTimeout: defaultNotifyTimeout,
			Author:         defaultNotificationAuthor,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
