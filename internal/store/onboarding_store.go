package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradex/exchange-service/internal/domain"
)

// OnboardingStore keeps the per-user onboarding completion flag in Redis.
// The stored value is the completion time in RFC 3339.
type OnboardingStore struct {
	client KeyValue
	prefix string
	now    func() time.Time
}

func NewOnboardingStore(client KeyValue, prefix string) *OnboardingStore {
	return &OnboardingStore{
		client: client,
		prefix: normalizePrefix(prefix),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *OnboardingStore) key(userID string) string {
	return fmt.Sprintf("%s:onboarding:%s", s.prefix, strings.TrimSpace(userID))
}

// Get reports the onboarding state for userID. Missing keys mean not completed.
func (s *OnboardingStore) Get(ctx context.Context, userID string) (domain.OnboardingState, error) {
	state := domain.OnboardingState{UserID: userID}
	raw, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return state, nil
	}
	if err != nil {
		return state, fmt.Errorf("read onboarding flag: %w", err)
	}

	state.Completed = true
	if at, parseErr := time.Parse(time.RFC3339, raw); parseErr == nil {
		state.CompletedAt = &at
	}
	return state, nil
}

// MarkCompleted sets the flag. It never expires.
func (s *OnboardingStore) MarkCompleted(ctx context.Context, userID string) (domain.OnboardingState, error) {
	at := s.now()
	if err := s.client.Set(ctx, s.key(userID), at.Format(time.RFC3339), 0).Err(); err != nil {
		return domain.OnboardingState{UserID: userID}, fmt.Errorf("write onboarding flag: %w", err)
	}
	return domain.OnboardingState{UserID: userID, Completed: true, CompletedAt: &at}, nil
}

// Reset clears the flag so the walkthrough is shown again.
func (s *OnboardingStore) Reset(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("clear onboarding flag: %w", err)
	}
	return nil
}
