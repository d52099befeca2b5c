package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"courseswap_server/models"
)

// NotificationService triggers the external notify-match endpoint that
// sends the match-found emails. Delivery itself is the endpoint's
// problem; callers treat any failure here as non-fatal.
type NotificationService struct {
	Endpoint string
	Client   *http.Client
}

// NewNotificationService builds a notifier for the given endpoint.
// An empty endpoint disables notifications.
func NewNotificationService(endpoint string) *NotificationService {
	return &NotificationService{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// NotifyMatch posts the match payload. A non-2xx response or transport
// failure is returned as an error for the caller to log and swallow.
func (ns *NotificationService) NotifyMatch(ctx context.Context, n models.MatchNotification) error {
	if ns.Endpoint == "" {
		log.Println("⚠️ NOTIFY_MATCH_URL not set, skipping match notification")
		return nil
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ns.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ns.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach notify endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notify endpoint returned status %d", resp.StatusCode)
	}

	var result models.NotifyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// The call went through; a malformed body is only worth a log line.
		log.Printf("⚠️ Could not decode notify-match response: %v", err)
		return nil
	}
	for _, e := range result.Errors {
		log.Printf("⚠️ Match email to user %s failed: %s", e.User, e.Error)
	}
	log.Printf("📧 Match notification sent to %d recipient(s)", len(result.EmailsSent))
	return nil
}
