package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mvelasco/aura/internal/domain"
)

// WebhookNotifier forwards bundles containing at least one danger alert to an
// external HTTP endpoint. Bundles without danger alerts are dropped silently.
type WebhookNotifier struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

// NewWebhookNotifier builds a webhook publisher for the given endpoint.
func NewWebhookNotifier(url string, logger *zap.Logger) *WebhookNotifier {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &WebhookNotifier{client: client, url: url, logger: logger}
}

func hasDanger(alerts []domain.Alert) bool {
	for _, a := range alerts {
		if a.Severity == domain.SeverityDanger {
			return true
		}
	}
	return false
}

func (n *WebhookNotifier) Publish(ctx context.Context, roomID string, bundle domain.Bundle) error {
	if !hasDanger(bundle.Alerts) {
		return nil
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(bundle).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("post alert webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("alert webhook returned %s", resp.Status())
	}

	n.logger.Debug("danger alert forwarded",
		zap.String("room_id", roomID),
		zap.Int64("measurement_id", bundle.Measurement.ID))
	return nil
}
