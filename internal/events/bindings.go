package events

import "github.com/tradex/exchange-service/internal/domain"

// Notification actions wired by the serve command.
const (
	ActionMailUser    ActionID = "mail.user"
	ActionInAppRecord ActionID = "inapp.record"
	ActionAdminAlert  ActionID = "admin.alert"
)

// DefaultBindings is the platform's event to notification table.
func DefaultBindings() []Binding {
	return []Binding{
		{Kind: domain.KindAccountDeleted, Actions: []ActionID{ActionMailUser, ActionAdminAlert}},
		{Kind: domain.KindTradeExecuted, Actions: []ActionID{ActionInAppRecord, ActionMailUser}},
		{Kind: domain.KindWalletConnected, Actions: []ActionID{ActionInAppRecord, ActionMailUser}},
		{Kind: domain.KindBalanceAdjusted, Actions: []ActionID{ActionInAppRecord, ActionMailUser, ActionAdminAlert}},
		{Kind: domain.KindKycSubmitted, Actions: []ActionID{ActionInAppRecord, ActionAdminAlert}},
		{Kind: domain.KindKycApproved, Actions: []ActionID{ActionInAppRecord, ActionMailUser}},
		{Kind: domain.KindKycRejected, Actions: []ActionID{ActionInAppRecord, ActionMailUser}},
		{Kind: domain.KindDepositConfirmed, Actions: []ActionID{ActionInAppRecord, ActionMailUser}},
		{Kind: domain.KindWithdrawalRequested, Actions: []ActionID{ActionInAppRecord, ActionMailUser, ActionAdminAlert}},
	}
}
