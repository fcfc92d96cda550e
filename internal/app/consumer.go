/**
 * @description
 * Queued event ingress. Each event kind is a routing key on the
 * `exchange.events` topic exchange; deliveries are decoded by kind and run
 * through the notification router.
 *
 * @notes
 * - Malformed bodies are acknowledged and dropped. Retrying cannot fix them.
 * - Dispatch never fails as a whole because actions are isolated, so every
 *   decoded delivery is acknowledged too.
 */
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/tradex/exchange-service/internal/domain"
	"github.com/tradex/exchange-service/internal/events"
	"github.com/tradex/exchange-service/pkg/rabbitmq"
)

// EventsExchange is the topic exchange domain services publish to.
const EventsExchange = "exchange.events"

type Dispatcher interface {
	Dispatch(ctx context.Context, event domain.Event) events.Report
}

// EventConsumer turns queue deliveries into router dispatches.
type EventConsumer struct {
	dispatcher Dispatcher
	logger     *slog.Logger
	timeout    time.Duration
}

func NewEventConsumer(dispatcher Dispatcher, logger *slog.Logger) *EventConsumer {
	return &EventConsumer{
		dispatcher: dispatcher,
		logger:     logger.With("component", "event_consumer"),
		timeout:    30 * time.Second,
	}
}

// Bindings returns one handler per event kind, keyed by routing key.
func (c *EventConsumer) Bindings() map[string]rabbitmq.Handler {
	bindings := make(map[string]rabbitmq.Handler, len(domain.AllEventKinds))
	for _, kind := range domain.AllEventKinds {
		kind := kind
		bindings[string(kind)] = func(ctx context.Context, body []byte) bool {
			return c.Handle(ctx, kind, body)
		}
	}
	return bindings
}

// Handle decodes and dispatches one delivery. It reports whether the
// delivery should be acknowledged.
func (c *EventConsumer) Handle(ctx context.Context, kind domain.EventKind, body []byte) bool {
	event, err := events.Decode(kind, body)
	if err != nil {
		c.logger.Error("dropping malformed event", "kind", kind, "error", err)
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	report := c.dispatcher.Dispatch(ctx, event)
	c.logger.Info("event dispatched",
		"kind", report.Kind,
		"event_id", report.EventID,
		"invoked", report.Invoked,
		"failed", len(report.Failures),
	)
	return true
}
