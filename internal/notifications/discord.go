package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const embedColor = 242424

type discordMessage struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title     string         `json:"title"`
	Color     int            `json:"color"`
	Author    *discordAuthor `json:"author,omitempty"`
	Fields    []discordField `json:"fields,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

type discordAuthor struct {
	Name string `json:"name"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordService struct {
	endpoint string
	author   string
	client   *http.Client
}

func (d *discordService) NotifySummary(ctx context.Context, digest Digest) error {
	stamp := digest.Timestamp
	if stamp.IsZero() {
		stamp = time.Now()
	}
	embed := discordEmbed{
		Title: summaryTitle(digest.Host),
		Color: embedColor,
		Fields: []discordField{
			{Name: "This run", Value: runLines(digest)},
			{Name: "Cumulative DB stats", Value: totalsLine(digest)},
		},
		Timestamp: stamp.UTC().Format(time.RFC3339),
	}
	if d.author != "" {
		embed.Author = &discordAuthor{Name: d.author}
	}
	return d.send(ctx, discordMessage{Embeds: []discordEmbed{embed}})
}

func (d *discordService) TestNotification(ctx context.Context) error {
	embed := discordEmbed{
		Title:     fmt.Sprintf("[%s] Notification test", Host()),
		Color:     embedColor,
		Fields:    []discordField{{Name: "Status", Value: "🧪 Notification system test"}},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if d.author != "" {
		embed.Author = &discordAuthor{Name: d.author}
	}
	return d.send(ctx, discordMessage{Embeds: []discordEmbed{embed}})
}

func (d *discordService) send(ctx context.Context, msg discordMessage) error {
	if d == nil || d.client == nil {
		return nil
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode discord payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return post(ctx, d.client, req, "discord")
}
