package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/tradex/exchange-service/internal/domain"
	"github.com/tradex/exchange-service/internal/metrics"
)

// Alert is an operator-facing message.
type Alert struct {
	Kind    domain.EventKind
	Title   string
	Message string
	Fields  map[string]string
}

// Alerter delivers operator alerts.
type Alerter interface {
	Send(ctx context.Context, alert Alert) error
}

// SlackAlerter posts alerts to a Slack-compatible incoming webhook.
type SlackAlerter struct {
	webhookURL string
	client     *http.Client
}

func NewSlackAlerter(webhookURL string) *SlackAlerter {
	return &SlackAlerter{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SlackAlerter) Send(ctx context.Context, alert Alert) error {
	emoji := ":information_source:"
	switch alert.Kind {
	case domain.KindAccountDeleted:
		emoji = ":wastebasket:"
	case domain.KindBalanceAdjusted:
		emoji = ":scales:"
	case domain.KindWithdrawalRequested:
		emoji = ":outbox_tray:"
	case domain.KindKycSubmitted:
		emoji = ":passport_control:"
	}

	var text strings.Builder
	fmt.Fprintf(&text, "%s *[%s]* %s\n%s", emoji, alert.Kind, alert.Title, alert.Message)
	if len(alert.Fields) > 0 {
		keys := make([]string, 0, len(alert.Fields))
		for k := range alert.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		text.WriteString("\n")
		for _, k := range keys {
			fmt.Fprintf(&text, "- *%s*: %s\n", k, alert.Fields[k])
		}
	}

	body, err := json.Marshal(map[string]string{"text": text.String()})
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send slack alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("slack returned status %d", resp.StatusCode)
	}
	return nil
}

// NoopAlerter does nothing. Used when no webhook is configured.
type NoopAlerter struct{}

func (NoopAlerter) Send(context.Context, Alert) error { return nil }

// AdminAlertAction tells operators about events that need a human look.
type AdminAlertAction struct {
	alerter Alerter
	logger  *slog.Logger
}

// NewAdminAlertAction returns an action posting to webhookURL, or a no-op
// action when webhookURL is empty.
func NewAdminAlertAction(webhookURL string, logger *slog.Logger) *AdminAlertAction {
	var alerter Alerter = NoopAlerter{}
	if strings.TrimSpace(webhookURL) != "" {
		alerter = NewSlackAlerter(strings.TrimSpace(webhookURL))
	} else {
		logger.Info("admin alert webhook not configured; admin alerts disabled", "component", "admin_alert")
	}
	return &AdminAlertAction{alerter: alerter, logger: logger.With("component", "admin_alert")}
}

func (a *AdminAlertAction) Handle(ctx context.Context, event domain.Event) error {
	if _, disabled := a.alerter.(NoopAlerter); disabled {
		return nil
	}

	rendered := Render(event)
	fields := map[string]string{
		"user_id":     event.UserID(),
		"occurred_at": event.OccurredAt().UTC().Format(time.RFC3339),
	}
	for k, v := range rendered.Data {
		if v != "" {
			fields[k] = v
		}
	}

	err := a.alerter.Send(ctx, Alert{
		Kind:    event.Kind(),
		Title:   rendered.Subject,
		Message: rendered.Body,
		Fields:  fields,
	})
	if err != nil {
		metrics.AdminAlertsTotal.WithLabelValues("failed").Inc()
		return err
	}
	metrics.AdminAlertsTotal.WithLabelValues("sent").Inc()
	return nil
}
