package notify

import (
	"fmt"
	"strconv"

	"github.com/tradex/exchange-service/internal/domain"
)

// Message is the rendered, channel-neutral text of a notification.
type Message struct {
	Template string
	Subject  string
	Body     string
	Data     map[string]string
}

// Render produces the subject and body for event.
func Render(event domain.Event) Message {
	msg := Message{
		Template: string(event.Kind()),
		Data:     map[string]string{"event_id": event.EventID()},
	}

	switch e := event.(type) {
	case domain.AccountDeletedEvent:
		msg.Subject = "Your account has been closed"
		msg.Body = "Your exchange account and its data have been deleted. If you did not request this, contact support immediately."
		msg.Data["reason"] = e.Reason
	case domain.TradeExecutedEvent:
		msg.Subject = fmt.Sprintf("Trade filled: %s %s", e.Side, e.Pair)
		msg.Body = fmt.Sprintf("Your %s order on %s was filled: %s at %s.", e.Side, e.Pair, e.Amount, e.Price)
		if e.Fee != "" {
			msg.Body += fmt.Sprintf(" Fee: %s.", e.Fee)
		}
		msg.Data["trade_id"] = e.TradeID
		msg.Data["pair"] = e.Pair
	case domain.WalletConnectedEvent:
		msg.Subject = "New wallet connected"
		msg.Body = fmt.Sprintf("Wallet %s on %s was connected to your account.", shortAddress(e.Address), e.Network)
		msg.Data["address"] = e.Address
		msg.Data["network"] = e.Network
	case domain.BalanceAdjustedEvent:
		msg.Subject = fmt.Sprintf("%s balance adjusted", e.Currency)
		msg.Body = fmt.Sprintf("Your %s balance changed by %s. New balance: %s. Reason: %s.", e.Currency, e.Delta, e.NewBalance, e.Reason)
		msg.Data["currency"] = e.Currency
		msg.Data["delta"] = e.Delta
	case domain.KycSubmittedEvent:
		msg.Subject = "Verification documents received"
		msg.Body = fmt.Sprintf("We received your %s for %s verification and will review it shortly.", e.DocumentType, e.Level)
		msg.Data["level"] = e.Level
	case domain.KycApprovedEvent:
		msg.Subject = "Identity verified"
		msg.Body = fmt.Sprintf("Your %s verification was approved. Higher limits are now available.", e.Level)
		msg.Data["level"] = e.Level
	case domain.KycRejectedEvent:
		msg.Subject = "Identity verification unsuccessful"
		msg.Body = fmt.Sprintf("Your %s verification was not approved: %s.", e.Level, e.Reason)
		msg.Data["level"] = e.Level
		msg.Data["reason"] = e.Reason
	case domain.DepositConfirmedEvent:
		msg.Subject = fmt.Sprintf("Deposit of %s %s confirmed", e.Amount, e.Currency)
		msg.Body = fmt.Sprintf("Your deposit of %s %s was confirmed after %d confirmations and is now available.", e.Amount, e.Currency, e.Confirmations)
		msg.Data["deposit_id"] = e.DepositID
		msg.Data["tx_hash"] = e.TxHash
		msg.Data["confirmations"] = strconv.Itoa(e.Confirmations)
	case domain.WithdrawalRequestedEvent:
		msg.Subject = fmt.Sprintf("Withdrawal of %s %s requested", e.Amount, e.Currency)
		msg.Body = fmt.Sprintf("A withdrawal of %s %s to %s was requested. If this was not you, lock your account now.", e.Amount, e.Currency, shortAddress(e.Destination))
		msg.Data["withdrawal_id"] = e.WithdrawalID
		msg.Data["destination"] = e.Destination
	default:
		msg.Subject = "Account activity"
		msg.Body = fmt.Sprintf("New activity on your account: %s.", event.Kind())
	}
	return msg
}

func shortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
