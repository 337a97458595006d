package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"nasflow/internal/config"
	"nasflow/internal/tracking"
	"nasflow/internal/workflow"
)

const (
	userAgent = "nasflow/0.1.0"

	// PlaceholderWebhook is the value shipped in sample configs; it disables delivery.
	PlaceholderWebhook = "YOUR_DISCORD_WEBHOOK_URL"
)

// Service defines the notification surface exposed to the CLI.
type Service interface {
	NotifySummary(ctx context.Context, digest Digest) error
	TestNotification(ctx context.Context) error
}

// Digest is everything a summary notification reports: the host, the counts
// for the pass that just ran, and the cumulative store snapshot.
type Digest struct {
	Host      string
	Run       workflow.Counts
	Pending   int
	Copying   int
	Done      int
	Timestamp time.Time
}

// NewDigest combines a pass summary with the store's per-status counts.
func NewDigest(host string, run workflow.Counts, stats map[tracking.Status]int) Digest {
	return Digest{
		Host:      host,
		Run:       run,
		Pending:   stats[tracking.StatusDetected],
		Copying:   stats[tracking.StatusCopied],
		Done:      stats[tracking.StatusCompleted],
		Timestamp: time.Now(),
	}
}

// Host returns the upper-cased machine name used to tag notifications.
func Host() string {
	name, err := os.Hostname()
	if err != nil || strings.TrimSpace(name) == "" {
		name = "unknown"
	}
	return cases.Upper(language.Und).String(strings.TrimSpace(name))
}

// Enabled reports whether cfg points at a usable webhook.
func Enabled(cfg *config.Config) bool {
	if cfg == nil {
		return false
	}
	url := strings.TrimSpace(cfg.Notifications.WebhookURL)
	return url != "" && !strings.Contains(url, PlaceholderWebhook)
}

// NewService builds the configured notification transport. A missing or
// placeholder webhook URL returns a noop implementation.
func NewService(cfg *config.Config) Service {
	if !Enabled(cfg) {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	endpoint := strings.TrimSpace(cfg.Notifications.WebhookURL)

	if cfg.Notifications.Kind == "ntfy" {
		return &ntfyService{endpoint: endpoint, client: client}
	}
	return &discordService{endpoint: endpoint, client: client, author: cfg.Notifications.Author}
}

func post(ctx context.Context, client *http.Client, req *http.Request, transport string) error {
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send %s notification: %w", transport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s returned %d: %s", transport, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func runLines(d Digest) string {
	return fmt.Sprintf(
		"🆕 New large videos detected: %d\n📤 Copied to uploads: %d\n✅ Uploaded and completed: %d",
		d.Run.New, d.Run.Copied, d.Run.Completed,
	)
}

func totalsLine(d Digest) string {
	return fmt.Sprintf("Pending: %d / Uploading: %d / Done: %d", d.Pending, d.Copying, d.Done)
}

func summaryTitle(host string) string {
	return fmt.Sprintf("[%s] Media backup workflow summary", host)
}

type noopService struct{}

func (noopService) NotifySummary(context.Context, Digest) error { return nil }
func (noopService) TestNotification(context.Context) error      { return nil }
