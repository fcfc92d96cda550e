package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tradex/exchange-service/internal/domain"
)

// ErrUnknownKind is returned by Decode for kinds the platform does not emit.
var ErrUnknownKind = errors.New("unknown event kind")

// Decode builds the typed event for kind from a JSON body. Missing event ids
// and timestamps are filled in so every dispatched event can be traced.
func Decode(kind domain.EventKind, body []byte) (domain.Event, error) {
	switch kind {
	case domain.KindAccountDeleted:
		var ev domain.AccountDeletedEvent
		if err := unmarshalEvent(body, &ev, &ev.EventHeader); err != nil {
			return nil, err
		}
		return ev, nil
	case domain.KindTradeExecuted:
		var ev domain.TradeExecutedEvent
		if err := unmarshalEvent(body, &ev, &ev.EventHeader); err != nil {
			return nil, err
		}
		return ev, nil
	case domain.KindWalletConnected:
		var ev domain.WalletConnectedEvent
		if err := unmarshalEvent(body, &ev, &ev.EventHeader); err != nil {
			return nil, err
		}
		return ev, nil
	case domain.KindBalanceAdjusted:
		var ev domain.BalanceAdjustedEvent
		if err := unmarshalEvent(body, &ev, &ev.EventHeader); err != nil {
			return nil, err
		}
		return ev, nil
	case domain.KindKycSubmitted:
		var ev domain.KycSubmittedEvent
		if err := unmarshalEvent(body, &ev, &ev.EventHeader); err != nil {
			return nil, err
		}
		return ev, nil
	case domain.KindKycApproved:
		var ev domain.KycApprovedEvent
		if err := unmarshalEvent(body, &ev, &ev.EventHeader); err != nil {
			return nil, err
		}
		return ev, nil
	case domain.KindKycRejected:
		var ev domain.KycRejectedEvent
		if err := unmarshalEvent(body, &ev, &ev.EventHeader); err != nil {
			return nil, err
		}
		return ev, nil
	case domain.KindDepositConfirmed:
		var ev domain.DepositConfirmedEvent
		if err := unmarshalEvent(body, &ev, &ev.EventHeader); err != nil {
			return nil, err
		}
		return ev, nil
	case domain.KindWithdrawalRequested:
		var ev domain.WithdrawalRequestedEvent
		if err := unmarshalEvent(body, &ev, &ev.EventHeader); err != nil {
			return nil, err
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func unmarshalEvent(body []byte, target interface{}, header *domain.EventHeader) error {
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode event payload: %w", err)
	}
	if header.User == "" {
		return errors.New("decode event payload: user_id is required")
	}
	if header.ID == "" {
		header.ID = uuid.NewString()
	}
	if header.Occurred.IsZero() {
		header.Occurred = time.Now().UTC()
	}
	return nil
}
