package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tradex/exchange-service/internal/domain"
)

// InAppRepository persists notification center entries.
type InAppRepository interface {
	CreateInAppNotification(ctx context.Context, item domain.InAppNotification) error
}

// InAppAction records a notification center entry for the event's user.
// Redelivered events map to the same dedupe key and are stored once.
type InAppAction struct {
	repo InAppRepository
}

func NewInAppAction(repo InAppRepository) *InAppAction {
	return &InAppAction{repo: repo}
}

func (a *InAppAction) Handle(ctx context.Context, event domain.Event) error {
	rendered := Render(event)
	body := rendered.Body
	dedupeKey := fmt.Sprintf("%s:%s", event.EventID(), event.Kind())

	data := make(map[string]interface{}, len(rendered.Data))
	for k, v := range rendered.Data {
		data[k] = v
	}

	item := domain.InAppNotification{
		ID:        uuid.New(),
		UserID:    event.UserID(),
		Category:  "system",
		Type:      string(event.Kind()),
		Title:     rendered.Subject,
		Body:      &body,
		Status:    "unread",
		Data:      data,
		DedupeKey: &dedupeKey,
		CreatedAt: event.OccurredAt(),
	}
	if err := a.repo.CreateInAppNotification(ctx, item); err != nil {
		return fmt.Errorf("record in-app notification: %w", err)
	}
	return nil
}
