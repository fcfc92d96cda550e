package domain

import "time"

// OnboardingState tracks whether a user finished the first-run walkthrough.
type OnboardingState struct {
	UserID      string     `json:"user_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
