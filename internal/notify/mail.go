package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tradex/exchange-service/internal/domain"
	"github.com/tradex/exchange-service/internal/metrics"
	"github.com/tradex/exchange-service/pkg/rabbitmq"
)

const (
	MailExchange   = "exchange.notifications"
	MailRoutingKey = "mail.send"
)

// UserLookup resolves the recipient of a user mail.
type UserLookup interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// MailAction queues a plain-text mail to the user the event concerns. The
// mailer worker consuming the queue owns templating and delivery.
type MailAction struct {
	users     UserLookup
	publisher rabbitmq.Publisher
	now       func() time.Time
}

func NewMailAction(users UserLookup, publisher rabbitmq.Publisher) *MailAction {
	return &MailAction{users: users, publisher: publisher, now: time.Now}
}

func (a *MailAction) Handle(ctx context.Context, event domain.Event) error {
	to, err := a.recipient(ctx, event)
	if err != nil {
		return err
	}

	rendered := Render(event)
	msg := domain.MailMessage{
		ID:       uuid.NewString(),
		To:       to,
		Subject:  rendered.Subject,
		Body:     rendered.Body,
		Template: rendered.Template,
		Data:     rendered.Data,
		QueuedAt: a.now().UTC(),
	}
	if err := a.publisher.Publish(ctx, MailExchange, MailRoutingKey, msg); err != nil {
		return fmt.Errorf("queue mail for %s: %w", event.Kind(), err)
	}
	metrics.MailQueuedTotal.WithLabelValues(string(event.Kind())).Inc()
	return nil
}

// recipient prefers an address carried on the event; deleted accounts no
// longer have a users row.
func (a *MailAction) recipient(ctx context.Context, event domain.Event) (string, error) {
	if e, ok := event.(domain.AccountDeletedEvent); ok && strings.TrimSpace(e.Email) != "" {
		return strings.TrimSpace(e.Email), nil
	}
	user, err := a.users.GetUserByID(ctx, event.UserID())
	if err != nil {
		return "", fmt.Errorf("resolve mail recipient %s: %w", event.UserID(), err)
	}
	if strings.TrimSpace(user.Email) == "" {
		return "", fmt.Errorf("user %s has no email address", user.ID)
	}
	return user.Email, nil
}
