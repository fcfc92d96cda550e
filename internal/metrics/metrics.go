package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Event notification router
	EventsDispatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exchange",
		Subsystem: "events",
		Name:      "dispatched_total",
		Help:      "Total domain events dispatched, by kind",
	}, []string{"kind"})

	EventsUnroutedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exchange",
		Subsystem: "events",
		Name:      "unrouted_total",
		Help:      "Events dispatched with no bound actions",
	}, []string{"kind"})

	ActionInvocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exchange",
		Subsystem: "events",
		Name:      "action_invocations_total",
		Help:      "Notification action invocations, by kind and action",
	}, []string{"kind", "action"})

	ActionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exchange",
		Subsystem: "events",
		Name:      "action_failures_total",
		Help:      "Notification action failures (errors and panics), by kind and action",
	}, []string{"kind", "action"})

	DispatchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "exchange",
		Subsystem: "events",
		Name:      "dispatch_duration_seconds",
		Help:      "Time spent running every action bound to an event",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"kind"})

	// Flash store
	FlashPushedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exchange",
		Subsystem: "flash",
		Name:      "pushed_total",
		Help:      "Flash notifications pushed, by kind",
	}, []string{"kind"})

	FlashExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "exchange",
		Subsystem: "flash",
		Name:      "expired_total",
		Help:      "Flash notifications removed by their expiry timer",
	})

	FlashActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "exchange",
		Subsystem: "flash",
		Name:      "active_sessions",
		Help:      "Sessions holding a flash store",
	})

	// Wallet address importer
	WalletUpsertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exchange",
		Subsystem: "wallet_import",
		Name:      "upserts_total",
		Help:      "Wallet address upserts, by outcome",
	}, []string{"outcome"})

	// Market prices
	PriceRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exchange",
		Subsystem: "market",
		Name:      "price_refresh_total",
		Help:      "Price feed refreshes, by outcome",
	}, []string{"outcome"})

	// Notification side effects
	MailQueuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exchange",
		Subsystem: "notify",
		Name:      "mail_queued_total",
		Help:      "Mail messages handed to the mail queue, by event kind",
	}, []string{"kind"})

	AdminAlertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exchange",
		Subsystem: "notify",
		Name:      "admin_alerts_total",
		Help:      "Operator webhook alerts, by outcome",
	}, []string{"outcome"})

	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exchange",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests, by route pattern and status code",
	}, []string{"route", "status"})
)
