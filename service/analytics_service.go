package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Analytics event names, matching the storefront pixel vocabulary.
const (
	EventAddToCart        = "AddToCart"
	EventInitiateCheckout = "InitiateCheckout"
)

// AnalyticsEvent is one fire-and-forget tracking call.
type AnalyticsEvent struct {
	Event       string `json:"event"`
	Currency    string `json:"currency"`
	Value       int64  `json:"value,omitempty"`
	NumItems    int    `json:"numItems,omitempty"`
	ProductID   string `json:"productId,omitempty"`
	ProductName string `json:"productName,omitempty"`
}

// AnalyticsService posts tracking events to the configured pixel endpoint.
// An unconfigured endpoint makes every call a no-op, and a failing endpoint
// only produces a log line: analytics can never block or fail the
// user-facing flow.
type AnalyticsService struct {
	endpoint string
	client   *http.Client
}

// NewAnalyticsService creates an AnalyticsService. Empty endpoint disables
// tracking.
func NewAnalyticsService(endpoint string) *AnalyticsService {
	return &AnalyticsService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Track sends the event in the background. Each event gets its own timeout
// context and its own error boundary.
func (s *AnalyticsService) Track(event AnalyticsEvent) {
	if s.endpoint == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.send(ctx, event); err != nil {
			log.Printf("⚠️  AnalyticsService: %s event failed: %v", event.Event, err)
		}
	}()
}

func (s *AnalyticsService) send(ctx context.Context, event AnalyticsEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("pixel endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
