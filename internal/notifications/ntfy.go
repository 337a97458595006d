package notifications

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifySummary(ctx context.Context, digest Digest) error {
	data := payload{
		title:   summaryTitle(digest.Host),
		message: runLines(digest) + "\n" + totalsLine(digest),
		tags:    []string{"nasflow", "backup", "summary"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    fmt.Sprintf("[%s] Notification test", Host()),
		message:  "🧪 Notification system test",
		tags:     []string{"nasflow", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}
	return post(ctx, n.client, req, "ntfy")
}
