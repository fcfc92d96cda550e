package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradex/exchange-service/internal/domain"
	"github.com/tradex/exchange-service/internal/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type dispatcherStub struct {
	events   []domain.Event
	deadline bool
}

func (d *dispatcherStub) Dispatch(ctx context.Context, event domain.Event) events.Report {
	_, d.deadline = ctx.Deadline()
	d.events = append(d.events, event)
	return events.Report{Kind: event.Kind(), EventID: event.EventID(), Invoked: 1}
}

func TestEventConsumer_BindsEveryKind(t *testing.T) {
	bindings := NewEventConsumer(&dispatcherStub{}, testLogger()).Bindings()
	require.Len(t, bindings, len(domain.AllEventKinds))
	for _, kind := range domain.AllEventKinds {
		assert.Contains(t, bindings, string(kind))
	}
}

func TestEventConsumer_DispatchesDecodedEvent(t *testing.T) {
	d := &dispatcherStub{}
	bindings := NewEventConsumer(d, testLogger()).Bindings()

	ack := bindings["deposit.confirmed"](context.Background(), []byte(`{"event_id":"e1","user_id":"u1","currency":"BTC","amount":"0.1","confirmations":3}`))

	assert.True(t, ack)
	require.Len(t, d.events, 1)
	dep, ok := d.events[0].(domain.DepositConfirmedEvent)
	require.True(t, ok)
	assert.Equal(t, 3, dep.Confirmations)
	assert.True(t, d.deadline, "dispatch runs under a timeout")
}

func TestEventConsumer_AcksMalformedBodies(t *testing.T) {
	d := &dispatcherStub{}
	c := NewEventConsumer(d, testLogger())

	assert.True(t, c.Handle(context.Background(), domain.KindTradeExecuted, []byte(`{not json`)))
	assert.True(t, c.Handle(context.Background(), domain.EventKind("margin.called"), []byte(`{"user_id":"u"}`)))
	assert.Empty(t, d.events)
}

type refresherStub struct {
	calls int
	err   error
}

func (r *refresherStub) Refresh(ctx context.Context) ([]domain.MarketTicker, error) {
	r.calls++
	return nil, r.err
}

type sweeperStub struct{ maxIdle time.Duration }

func (s *sweeperStub) Sweep(maxIdle time.Duration) int { s.maxIdle = maxIdle; return 2 }

type prunerStub struct{ calls int }

func (p *prunerStub) Prune(maxIdle time.Duration) int { p.calls++; return 1 }

func TestJobs(t *testing.T) {
	prices := &refresherStub{err: errors.New("coingecko down")}
	sessions := &sweeperStub{}
	limiters := &prunerStub{}
	jobs := NewJobs(prices, sessions, limiters, testLogger())

	assert.NotPanics(t, jobs.RefreshMarketPrices)
	assert.Equal(t, 1, prices.calls)

	jobs.SweepIdleSessions()
	assert.Equal(t, 30*time.Minute, sessions.maxIdle)
	assert.Equal(t, 1, limiters.calls)
}

func TestScheduler_RegistersJobs(t *testing.T) {
	jobs := NewJobs(&refresherStub{}, &sweeperStub{}, nil, testLogger())

	s := NewScheduler(jobs, testLogger(), "*/5 * * * *")
	s.Start()
	defer s.Stop()
	assert.Equal(t, 2, s.Entries())

	bad := NewScheduler(jobs, testLogger(), "every now and then")
	bad.Start()
	defer bad.Stop()
	assert.Equal(t, 1, bad.Entries(), "an invalid price schedule is skipped")
}

func TestNewNotificationRouter(t *testing.T) {
	var calls []string
	record := func(name string) events.Action {
		return events.ActionFunc(func(ctx context.Context, event domain.Event) error {
			calls = append(calls, name)
			return nil
		})
	}

	router, err := NewNotificationRouter(NotificationActions{
		Mail:       record("mail"),
		InApp:      record("inapp"),
		AdminAlert: record("alert"),
	}, events.DefaultBindings(), testLogger())
	require.NoError(t, err)
	assert.Len(t, router.Bindings(), len(domain.AllEventKinds))

	ev, err := events.Decode(domain.KindWithdrawalRequested, []byte(`{"user_id":"u1","amount":"5","currency":"ETH"}`))
	require.NoError(t, err)
	report := router.Dispatch(context.Background(), ev)

	assert.Equal(t, 3, report.Invoked)
	assert.Equal(t, []string{"inapp", "mail", "alert"}, calls)
}

func TestNewNotificationRouter_MissingAction(t *testing.T) {
	_, err := NewNotificationRouter(NotificationActions{
		Mail:  events.ActionFunc(func(context.Context, domain.Event) error { return nil }),
		InApp: events.ActionFunc(func(context.Context, domain.Event) error { return nil }),
	}, events.DefaultBindings(), testLogger())
	assert.Error(t, err)
}
