package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storybook/internal/config"
)

const userAgent = "Storybook-Console/0.1.0"

// Service defines the notification surface exposed to the watch loop.
type Service interface {
	NotifyGenerationComplete(ctx context.Context, storyTitle string, total int) error
	NotifyVideoComplete(ctx context.Context, storyTitle string, total int) error
	NotifyCompositionComplete(ctx context.Context, storyTitle string, sceneID int64) error
	NotifyExtractionComplete(ctx context.Context, storyTitle string) error
	NotifyReferencesComplete(ctx context.Context, storyTitle string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		enabled: enabledEvents{
			generation:  cfg.Notifications.Generation,
			video:       cfg.Notifications.Video,
			composition: cfg.Notifications.Composition,
			extraction:  cfg.Notifications.Extraction,
			errors:      cfg.Notifications.Errors,
		},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type enabledEvents struct {
	generation  bool
	video       bool
	composition bool
	extraction  bool
	errors      bool
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	enabled  enabledEvents
}

// withSubject appends the story label when the broadcast carried one. The
// story-wide completion events arrive without identifying fields, so the
// label is often empty.
func withSubject(message, storyTitle string) string {
	if title := strings.TrimSpace(storyTitle); title != "" {
		return message + ": " + title
	}
	return message
}

func (n *ntfyService) NotifyGenerationComplete(ctx context.Context, storyTitle string, total int) error {
	if !n.enabled.generation {
		return nil
	}
	message := "🎨 All shot images generated"
	if total > 0 {
		message = fmt.Sprintf("🎨 All %d shot images generated", total)
	}
	data := payload{
		title:   "Storybook - Images Ready",
		message: withSubject(message, storyTitle),
		tags:    []string{"storybook", "generation", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyVideoComplete(ctx context.Context, storyTitle string, total int) error {
	if !n.enabled.video {
		return nil
	}
	message := "🎬 All shot videos generated"
	if total > 0 {
		message = fmt.Sprintf("🎬 All %d shot videos generated", total)
	}
	data := payload{
		title:    "Storybook - Videos Ready",
		message:  withSubject(message, storyTitle),
		tags:     []string{"storybook", "video", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyCompositionComplete(ctx context.Context, storyTitle string, sceneID int64) error {
	if !n.enabled.composition {
		return nil
	}
	data := payload{
		title:   "Storybook - Scene Composed",
		message: withSubject(fmt.Sprintf("🎞️ Scene %d composed", sceneID), storyTitle),
		tags:    []string{"storybook", "composition", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyExtractionComplete(ctx context.Context, storyTitle string) error {
	if !n.enabled.extraction {
		return nil
	}
	data := payload{
		title:   "Storybook - World Bible Ready",
		message: withSubject("📖 World bible extracted", storyTitle),
		tags:    []string{"storybook", "extraction", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyReferencesComplete(ctx context.Context, storyTitle string) error {
	if !n.enabled.extraction {
		return nil
	}
	data := payload{
		title:   "Storybook - References Ready",
		message: withSubject("🖼️ All reference images generated", storyTitle),
		tags:    []string{"storybook", "references", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.enabled.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("❌ Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Storybook - Error",
		message:  builder.String(),
		tags:     []string{"storybook", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Storybook - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"storybook", "test"},
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
	req.Header.Set("User-Agent", userAgent)
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

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyGenerationComplete(context.Context, string, int) error    { return nil }
func (noopService) NotifyVideoComplete(context.Context, string, int) error         { return nil }
func (noopService) NotifyCompositionComplete(context.Context, string, int64) error { return nil }
func (noopService) NotifyExtractionComplete(context.Context, string) error         { return nil }
func (noopService) NotifyReferencesComplete(context.Context, string) error         { return nil }
func (noopService) NotifyError(context.Context, error, string) error               { return nil }
func (noopService) TestNotification(context.Context) error                         { return nil }
