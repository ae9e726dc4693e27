package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/airvigil/airvigil/internal/alerts"
	"github.com/airvigil/airvigil/internal/api"
)

// Sender delivers a formatted alert to an external channel.
type Sender interface {
	Send(ctx context.Context, alert api.PendingAlert) error
}

// SlackSender posts pollution alerts to a Slack channel.
type SlackSender struct {
	client  *slack.Client
	channel string
}

// NewSlackSender creates a sender posting to the given channel (name or ID).
func NewSlackSender(botToken, channel string) *SlackSender {
	return &SlackSender{
		client:  slack.New(botToken),
		channel: channel,
	}
}

// Send posts one alert message to Slack.
func (s *SlackSender) Send(ctx context.Context, alert api.PendingAlert) error {
	message := FormatAlertMessage(alert)
	_, _, err := s.client.PostMessageContext(
		ctx,
		s.channel,
		slack.MsgOptionText(message, false),
	)
	if err != nil {
		return fmt.Errorf("failed to post alert for station %d: %w", alert.StationID, err)
	}
	return nil
}

// FormatAlertMessage renders one pending alert as Slack mrkdwn.
func FormatAlertMessage(alert api.PendingAlert) string {
	var sb strings.Builder

	pollutant := alerts.Pollutant(alert.Pollutant)
	sb.WriteString(":rotating_light: *POLLUTION ALERT*\n\n")
	sb.WriteString(fmt.Sprintf(":round_pushpin: *Station:* %s (%s)\n", alert.StationName, alert.City))
	sb.WriteString(fmt.Sprintf(":warning: *Pollutant:* %s\n", pollutant.DisplayName()))
	sb.WriteString(fmt.Sprintf(":bar_chart: *Value:* %.2f %s (limit: %.2f)\n", alert.Value, pollutant.Unit(), alert.Limit))
	sb.WriteString(fmt.Sprintf(":clock3: *Measured at:* %s\n", alert.AlertTimestamp.Format("2006-01-02 15:04 MST")))

	return sb.String()
}
