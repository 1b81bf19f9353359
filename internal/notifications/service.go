package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"photonym/internal/config"
)

const userAgent = "Photonym-Go/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyMediaDetected(ctx context.Context, device string) error
	NotifyBatchStarted(ctx context.Context, count int) error
	NotifyBatchCompleted(ctx context.Context, renamed, failed int, duration time.Duration) error
	NotifyPhotoFailed(ctx context.Context, originalName, reason string) error
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
		endpoint:    topic,
		client:      &http.Client{Timeout: timeout},
		batchEvents: cfg.Notifications.Batch,
		errorEvents: cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint    string
	client      *http.Client
	batchEvents bool
	errorEvents bool
}

func (n *ntfyService) NotifyMediaDetected(ctx context.Context, device string) error {
	if !n.batchEvents {
		return nil
	}
	device = strings.TrimSpace(device)
	if device == "" {
		device = "unknown"
	}
	data := payload{
		title:   "Photonym - Media Detected",
		message: fmt.Sprintf("Removable media detected: %s", device),
		tags:    []string{"photonym", "media", "detected"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBatchStarted(ctx context.Context, count int) error {
	if !n.batchEvents {
		return nil
	}
	data := payload{
		title:   "Photonym - Batch Started",
		message: fmt.Sprintf("Started processing %d photos", count),
		tags:    []string{"photonym", "batch", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBatchCompleted(ctx context.Context, renamed, failed int, duration time.Duration) error {
	if !n.batchEvents {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	var title, message string
	if failed == 0 {
		title = "Photonym - Batch Complete"
		message = fmt.Sprintf("Renamed %d photos in %s", renamed, duration)
	} else {
		title = "Photonym - Batch Complete (with errors)"
		message = fmt.Sprintf("Renamed %d photos, %d failed in %s", renamed, failed, duration)
	}
	data := payload{
		title:   title,
		message: message,
		tags:    []string{"photonym", "batch", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPhotoFailed(ctx context.Context, originalName, reason string) error {
	if !n.errorEvents {
		return nil
	}
	originalName = strings.TrimSpace(originalName)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unknown"
	}
	data := payload{
		title:    "Photonym - Photo Failed",
		message:  fmt.Sprintf("Could not process %s: %s", originalName, reason),
		tags:     []string{"photonym", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Photonym - Test",
		message:  "Notification system test",
		tags:     []string{"photonym", "test"},
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

func (noopService) NotifyMediaDetected(context.Context, string) error                    { return nil }
func (noopService) NotifyBatchStarted(context.Context, int) error                        { return nil }
func (noopService) NotifyBatchCompleted(context.Context, int, int, time.Duration) error  { return nil }
func (noopService) NotifyPhotoFailed(context.Context, string, string) error              { return nil }
func (noopService) TestNotification(context.Context) error                               { return nil }
