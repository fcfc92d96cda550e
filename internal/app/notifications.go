package app

import (
	"fmt"
	"log/slog"

	"github.com/tradex/exchange-service/internal/events"
)

// NotificationActions are the side effects the router can bind to.
type NotificationActions struct {
	Mail       events.Action
	InApp      events.Action
	AdminAlert events.Action
}

// NewNotificationRouter registers the actions and binds them with bindings.
func NewNotificationRouter(actions NotificationActions, bindings []events.Binding, logger *slog.Logger) (*events.Router, error) {
	router := events.NewRouter(logger)

	for id, action := range map[events.ActionID]events.Action{
		events.ActionMailUser:    actions.Mail,
		events.ActionInAppRecord: actions.InApp,
		events.ActionAdminAlert:  actions.AdminAlert,
	} {
		if err := router.HandleAction(id, action); err != nil {
			return nil, err
		}
	}

	if err := router.RegisterAll(bindings); err != nil {
		return nil, fmt.Errorf("failed to register event bindings: %w", err)
	}
	return router, nil
}
