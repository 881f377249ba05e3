package testutil

import (
	"time"

	"go.uber.org/zap"

	"github.com/banglish/backend/internal/models"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// NewTestContribution creates a pending contribution submitted at ts
func NewTestContribution(id, banglish, bengali string, ts time.Time) models.Contribution {
	return models.Contribution{
		ID:          id,
		Banglish:    banglish,
		Bengali:     bengali,
		SubmittedAt: ts,
		Status:      models.StatusPending,
	}
}

// NewTestUser creates a test account
func NewTestUser(id, username string, role models.Role) *models.User {
	return &models.User{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
}
