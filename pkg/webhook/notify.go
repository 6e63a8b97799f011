package webhook

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/ccollicutt/todoci/pkg/config"
	"github.com/ccollicutt/todoci/pkg/output"
)

// ShouldFire determines if a webhook should fire for a report.
func ShouldFire(trigger config.WebhookTrigger, report *output.Report) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return report.HasOverdue()
	}
}

// Notify sends the report to every webhook whose trigger matches. Delivery
// failures are logged and returned; they never abort the remaining hooks.
func (c *Client) Notify(ctx context.Context, hooks []config.WebhookConfig, report *output.Report, logger *log.Logger) []*Response {
	var responses []*Response

	for _, wh := range hooks {
		if !ShouldFire(wh.Trigger, report) {
			logger.Debug("webhook not triggered", "webhook", wh.DisplayName(), "trigger", wh.Trigger)
			continue
		}

		resp := c.Send(ctx, report, SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})
		responses = append(responses, resp)

		if resp.Success() {
			logger.Info("webhook sent", "webhook", wh.DisplayName(), "status", resp.StatusCode, "duration", resp.Duration)
		} else {
			logger.Warn("webhook failed", "webhook", wh.DisplayName(), "err", resp.Error)
		}
	}

	return responses
}
