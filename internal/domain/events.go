/**
 * @description
 * Domain events emitted by the trading, wallet and compliance services. Each
 * event kind has its own payload struct; all of them satisfy the Event
 * interface so they can travel through the notification router as a single
 * tagged variant.
 *
 * @notes
 * - Kinds double as RabbitMQ routing keys on the `exchange.events` exchange.
 * - Amounts are decimal strings to avoid float rounding in transit.
 */
package domain

import (
	"time"
)

// EventKind identifies a category of domain occurrence.
type EventKind string

const (
	KindAccountDeleted      EventKind = "account.deleted"
	KindTradeExecuted       EventKind = "trade.executed"
	KindWalletConnected     EventKind = "wallet.connected"
	KindBalanceAdjusted     EventKind = "balance.adjusted"
	KindKycSubmitted        EventKind = "kyc.submitted"
	KindKycApproved         EventKind = "kyc.approved"
	KindKycRejected         EventKind = "kyc.rejected"
	KindDepositConfirmed    EventKind = "deposit.confirmed"
	KindWithdrawalRequested EventKind = "withdrawal.requested"
)

// AllEventKinds lists every kind the platform emits.
var AllEventKinds = []EventKind{
	KindAccountDeleted,
	KindTradeExecuted,
	KindWalletConnected,
	KindBalanceAdjusted,
	KindKycSubmitted,
	KindKycApproved,
	KindKycRejected,
	KindDepositConfirmed,
	KindWithdrawalRequested,
}

// Event is implemented by every domain event payload.
type Event interface {
	Kind() EventKind
	EventID() string
	UserID() string
	OccurredAt() time.Time
}

// EventHeader carries the fields shared by every event.
type EventHeader struct {
	ID       string    `json:"event_id"`
	User     string    `json:"user_id"`
	Occurred time.Time `json:"occurred_at"`
}

func (h EventHeader) EventID() string       { return h.ID }
func (h EventHeader) UserID() string        { return h.User }
func (h EventHeader) OccurredAt() time.Time { return h.Occurred }

type AccountDeletedEvent struct {
	EventHeader
	Email  string `json:"email"`
	Reason string `json:"reason,omitempty"`
}

func (AccountDeletedEvent) Kind() EventKind { return KindAccountDeleted }

type TradeExecutedEvent struct {
	EventHeader
	TradeID string `json:"trade_id"`
	Pair    string `json:"pair"`
	Side    string `json:"side"`
	Amount  string `json:"amount"`
	Price   string `json:"price"`
	Fee     string `json:"fee,omitempty"`
}

func (TradeExecutedEvent) Kind() EventKind { return KindTradeExecuted }

type WalletConnectedEvent struct {
	EventHeader
	Address  string `json:"address"`
	Network  string `json:"network"`
	Provider string `json:"provider,omitempty"`
}

func (WalletConnectedEvent) Kind() EventKind { return KindWalletConnected }

type BalanceAdjustedEvent struct {
	EventHeader
	Currency   string `json:"currency"`
	Delta      string `json:"delta"`
	NewBalance string `json:"new_balance"`
	Reason     string `json:"reason"`
	AdjustedBy string `json:"adjusted_by,omitempty"`
}

func (BalanceAdjustedEvent) Kind() EventKind { return KindBalanceAdjusted }

type KycSubmittedEvent struct {
	EventHeader
	Level        string `json:"level"`
	DocumentType string `json:"document_type"`
}

func (KycSubmittedEvent) Kind() EventKind { return KindKycSubmitted }

type KycApprovedEvent struct {
	EventHeader
	Level string `json:"level"`
}

func (KycApprovedEvent) Kind() EventKind { return KindKycApproved }

type KycRejectedEvent struct {
	EventHeader
	Level  string `json:"level"`
	Reason string `json:"reason"`
}

func (KycRejectedEvent) Kind() EventKind { return KindKycRejected }

type DepositConfirmedEvent struct {
	EventHeader
	DepositID     string `json:"deposit_id"`
	Currency      string `json:"currency"`
	Amount        string `json:"amount"`
	TxHash        string `json:"tx_hash"`
	Confirmations int    `json:"confirmations"`
}

func (DepositConfirmedEvent) Kind() EventKind { return KindDepositConfirmed }

type WithdrawalRequestedEvent struct {
	EventHeader
	WithdrawalID string `json:"withdrawal_id"`
	Currency     string `json:"currency"`
	Amount       string `json:"amount"`
	Destination  string `json:"destination"`
}

func (WithdrawalRequestedEvent) Kind() EventKind { return KindWithdrawalRequested }
