/**
 * @description
 * HTTP handlers for the exchange web layer: session flash messages, the
 * onboarding flag, market tickers, wallet address administration and the
 * internal event ingress.
 */
package api

import (
	"context"
	"log/slog"

	"github.com/tradex/exchange-service/internal/domain"
	"github.com/tradex/exchange-service/internal/events"
	"github.com/tradex/exchange-service/internal/flash"
	"github.com/tradex/exchange-service/internal/wallet"
)

type OnboardingStore interface {
	Get(ctx context.Context, userID string) (domain.OnboardingState, error)
	MarkCompleted(ctx context.Context, userID string) (domain.OnboardingState, error)
	Reset(ctx context.Context, userID string) error
}

type MarketService interface {
	Tickers(ctx context.Context) ([]domain.MarketTicker, error)
}

type WalletRepository interface {
	ListWalletAddresses(ctx context.Context, activeOnly bool) ([]domain.WalletAddress, error)
}

type WalletImporter interface {
	Import(ctx context.Context, raw string) (wallet.Result, error)
}

type EventDispatcher interface {
	Dispatch(ctx context.Context, event domain.Event) events.Report
	Bindings() []events.Binding
}

// Handler holds the collaborators every route needs.
type Handler struct {
	logger       *slog.Logger
	flash        *flash.Registry
	pushLimiter  *KeyedLimiter
	onboarding   OnboardingStore
	markets      MarketService
	wallets      WalletRepository
	importer     WalletImporter
	walletSource string
	dispatcher   EventDispatcher
}

// HandlerDeps bundles the constructor arguments of NewHandler.
type HandlerDeps struct {
	Logger       *slog.Logger
	Flash        *flash.Registry
	PushLimiter  *KeyedLimiter
	Onboarding   OnboardingStore
	Markets      MarketService
	Wallets      WalletRepository
	Importer     WalletImporter
	WalletSource string
	Dispatcher   EventDispatcher
}

func NewHandler(deps HandlerDeps) *Handler {
	limiter := deps.PushLimiter
	if limiter == nil {
		limiter = NewKeyedLimiter(5, 10)
	}
	return &Handler{
		logger:       deps.Logger.With("component", "api"),
		flash:        deps.Flash,
		pushLimiter:  limiter,
		onboarding:   deps.Onboarding,
		markets:      deps.Markets,
		wallets:      deps.Wallets,
		importer:     deps.Importer,
		walletSource: deps.WalletSource,
		dispatcher:   deps.Dispatcher,
	}
}
