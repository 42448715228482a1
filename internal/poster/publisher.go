package poster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// LogPublisher writes posts to the process log. Used when no delivery
// endpoint is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, body string) error {
	log.Printf("[publish] %s", body)
	return nil
}

// WebhookPublisher POSTs each rendered post as JSON to a configured
// endpoint (a social bridge, Zapier hook, etc.).
type WebhookPublisher struct {
	URL    string
	Client *http.Client
}

func NewWebhookPublisher(url string) *WebhookPublisher {
	return &WebhookPublisher{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (w *WebhookPublisher) Publish(ctx context.Context, body string) error {
	payload, err := json.Marshal(map[string]string{"text": body})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}
