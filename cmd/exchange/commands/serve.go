package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradex/exchange-service/internal/api"
	"github.com/tradex/exchange-service/internal/app"
	"github.com/tradex/exchange-service/internal/auth"
	"github.com/tradex/exchange-service/internal/events"
	"github.com/tradex/exchange-service/internal/flash"
	"github.com/tradex/exchange-service/internal/market"
	"github.com/tradex/exchange-service/internal/notify"
	"github.com/tradex/exchange-service/internal/store"
	"github.com/tradex/exchange-service/internal/wallet"
	"github.com/tradex/exchange-service/pkg/coingeckoclient"
	"github.com/tradex/exchange-service/pkg/rabbitmq"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, event consumer and scheduled jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	pool, err := connectDatabase(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	repo := store.NewRepository(pool)

	rdb, err := store.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()
	logger.Info("redis connection established")

	var producer rabbitmq.Publisher
	eventProducer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Warn("rabbitmq producer unavailable, mail notifications will be dropped", "error", err)
		producer = rabbitmq.NewFallbackProducer(logger)
	} else {
		producer = eventProducer
	}
	defer producer.Close()

	router, err := app.NewNotificationRouter(app.NotificationActions{
		Mail:       notify.NewMailAction(repo, producer),
		InApp:      notify.NewInAppAction(repo),
		AdminAlert: notify.NewAdminAlertAction(cfg.AdminAlertWebhookURL, logger),
	}, events.DefaultBindings(), logger)
	if err != nil {
		return err
	}

	registry := flash.NewRegistry(flash.SystemClock, cfg.FlashDefaultDuration())
	defer registry.Close()

	markets := market.NewService(
		repo,
		coingeckoclient.NewClient(cfg.CoingeckoAPIURL, cfg.CoingeckoAPIKey),
		store.NewPriceCache(rdb, cfg.RedisKeyPrefix),
		cfg.PriceCacheTTL(),
		logger,
	)
	pushLimiter := api.NewKeyedLimiter(5, 10)

	handler := api.NewHandler(api.HandlerDeps{
		Logger:       logger,
		Flash:        registry,
		PushLimiter:  pushLimiter,
		Onboarding:   store.NewOnboardingStore(rdb, cfg.RedisKeyPrefix),
		Markets:      markets,
		Wallets:      repo,
		Importer:     wallet.NewImporter(repo, logger),
		WalletSource: cfg.WalletAddressesJSON,
		Dispatcher:   router,
	})
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set, authenticated routes will reject every request")
	}
	if cfg.InternalAPIKey == "" {
		logger.Warn("INTERNAL_API_KEY is not set, internal event ingress is closed")
	}
	mux := api.NewRouter(handler, api.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins(),
		InternalAPIKey: cfg.InternalAPIKey,
		Authenticator:  auth.NewAuthenticator(cfg.JWTSecret),
		Gate:           auth.DefaultGate(),
	})

	scheduler := app.NewScheduler(app.NewJobs(markets, registry, pushLimiter, logger), logger, cfg.PriceRefreshSchedule)
	scheduler.Start()
	defer func() {
		<-scheduler.Stop().Done()
		logger.Info("scheduler stopped")
	}()

	if cfg.RabbitMQURL != "" {
		go consumeEvents(ctx, app.NewEventConsumer(router, logger))
	} else {
		logger.Warn("RABBITMQ_URL is not set, queued events will not be consumed")
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		return err
	}
	logger.Info("server gracefully stopped")
	return nil
}

// consumeEvents keeps the event consumer attached until ctx is cancelled,
// reconnecting after broker failures.
func consumeEvents(ctx context.Context, eventConsumer *app.EventConsumer) {
	log := logger.With("component", "amqp")
	const retryDelay = 5 * time.Second

	for {
		consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQURL, logger)
		if err != nil {
			log.Error("failed to connect event consumer", "error", err)
		} else {
			log.Info("consuming domain events", "exchange", app.EventsExchange, "queue", cfg.EventQueue)
			err = consumer.ConsumeWithBindings(ctx, app.EventsExchange, cfg.EventQueue, eventConsumer.Bindings())
			consumer.Close()
			if err != nil {
				log.Error("event consumer stopped", "error", err)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
	}
}
