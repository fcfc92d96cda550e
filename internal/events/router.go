/**
 * @description
 * The notification router maps each domain event kind to an ordered list of
 * notification actions and runs them when an event is dispatched.
 *
 * Key features:
 * - Bindings are registered once at start-up and validated against the set of
 *   known actions.
 * - Actions run in registration order. A failing or panicking action is logged
 *   and counted but never stops its siblings or reaches the emitter.
 * - Unknown kinds are ignored.
 *
 * @dependencies
 * - log/slog: the failure reporting collaborator.
 * - github.com/prometheus/client_golang: dispatch and failure counters.
 * - go.opentelemetry.io/otel: spans around dispatch and each action.
 */
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tradex/exchange-service/internal/domain"
	"github.com/tradex/exchange-service/internal/metrics"
)

var (
	ErrEmptyBinding    = errors.New("binding has no actions")
	ErrUnknownAction   = errors.New("unknown notification action")
	ErrDuplicateAction = errors.New("notification action already registered")
	ErrActionPanic     = errors.New("notification action panicked")
)

// ActionID names a notification action, e.g. "mail.user".
type ActionID string

// Action performs one notification side effect for an event.
type Action interface {
	Handle(ctx context.Context, event domain.Event) error
}

// ActionFunc adapts a plain function to the Action interface.
type ActionFunc func(ctx context.Context, event domain.Event) error

func (f ActionFunc) Handle(ctx context.Context, event domain.Event) error {
	return f(ctx, event)
}

// Binding maps one event kind to its ordered actions.
type Binding struct {
	Kind    domain.EventKind `json:"kind"`
	Actions []ActionID       `json:"actions"`
}

// ActionFailure describes one isolated action failure.
type ActionFailure struct {
	Action ActionID `json:"action"`
	Error  string   `json:"error"`
}

// Report summarises a single dispatch.
type Report struct {
	Kind     domain.EventKind `json:"kind"`
	EventID  string           `json:"event_id"`
	Invoked  int              `json:"invoked"`
	Failures []ActionFailure  `json:"failures,omitempty"`
}

// Succeeded returns the number of actions that completed without error.
func (r Report) Succeeded() int {
	return r.Invoked - len(r.Failures)
}

type boundAction struct {
	id     ActionID
	action Action
}

// Router holds the static event-kind to action table.
type Router struct {
	mu      sync.RWMutex
	actions map[ActionID]Action
	table   map[domain.EventKind][]ActionID
	kinds   []domain.EventKind
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewRouter creates an empty router.
func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		actions: make(map[ActionID]Action),
		table:   make(map[domain.EventKind][]ActionID),
		logger:  logger.With("component", "event_router"),
		tracer:  otel.Tracer("github.com/tradex/exchange-service/internal/events"),
	}
}

// HandleAction makes an action available to bindings under id.
func (r *Router) HandleAction(id ActionID, action Action) error {
	if id == "" || action == nil {
		return fmt.Errorf("register action %q: action and id are required", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.actions[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, id)
	}
	r.actions[id] = action
	return nil
}

// Register binds kind to the given actions. Registering a kind twice appends.
func (r *Router) Register(kind domain.EventKind, ids ...ActionID) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyBinding, kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if _, ok := r.actions[id]; !ok {
			return fmt.Errorf("%w: %s bound to %s", ErrUnknownAction, id, kind)
		}
	}
	if _, seen := r.table[kind]; !seen {
		r.kinds = append(r.kinds, kind)
	}
	r.table[kind] = append(r.table[kind], ids...)
	return nil
}

// RegisterAll registers every binding, stopping at the first invalid one.
func (r *Router) RegisterAll(bindings []Binding) error {
	for _, b := range bindings {
		if err := r.Register(b.Kind, b.Actions...); err != nil {
			return err
		}
	}
	return nil
}

// Bindings returns a copy of the table in first-registration order.
func (r *Router) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Binding, 0, len(r.kinds))
	for _, kind := range r.kinds {
		ids := make([]ActionID, len(r.table[kind]))
		copy(ids, r.table[kind])
		out = append(out, Binding{Kind: kind, Actions: ids})
	}
	return out
}

// Dispatch runs every action bound to the event's kind. It never returns an
// error; failures are reported through the logger and the Report.
func (r *Router) Dispatch(ctx context.Context, event domain.Event) Report {
	kind := event.Kind()
	report := Report{Kind: kind, EventID: event.EventID()}

	r.mu.RLock()
	ids := r.table[kind]
	bound := make([]boundAction, 0, len(ids))
	for _, id := range ids {
		bound = append(bound, boundAction{id: id, action: r.actions[id]})
	}
	r.mu.RUnlock()

	if len(bound) == 0 {
		metrics.EventsUnroutedTotal.WithLabelValues(string(kind)).Inc()
		r.logger.Debug("no actions bound; ignoring event", "kind", kind, "event_id", report.EventID)
		return report
	}

	ctx, span := r.tracer.Start(ctx, "events.dispatch", trace.WithAttributes(
		attribute.String("event.kind", string(kind)),
		attribute.String("event.id", report.EventID),
	))
	defer span.End()

	start := time.Now()
	metrics.EventsDispatchedTotal.WithLabelValues(string(kind)).Inc()

	for _, b := range bound {
		report.Invoked++
		metrics.ActionInvocationsTotal.WithLabelValues(string(kind), string(b.id)).Inc()

		if err := r.runAction(ctx, b.id, b.action, event); err != nil {
			metrics.ActionFailuresTotal.WithLabelValues(string(kind), string(b.id)).Inc()
			report.Failures = append(report.Failures, ActionFailure{Action: b.id, Error: err.Error()})
			r.logger.Error("notification action failed",
				"kind", kind,
				"event_id", report.EventID,
				"user_id", event.UserID(),
				"action", b.id,
				"error", err,
			)
		}
	}

	metrics.DispatchLatency.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if len(report.Failures) > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d of %d actions failed", len(report.Failures), report.Invoked))
	}
	return report
}

func (r *Router) runAction(ctx context.Context, id ActionID, action Action, event domain.Event) (err error) {
	ctx, span := r.tracer.Start(ctx, "events.action", trace.WithAttributes(
		attribute.String("action.id", string(id)),
	))
	defer span.End()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrActionPanic, p)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	return action.Handle(ctx, event)
}
