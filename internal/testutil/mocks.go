package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/banglish/backend/internal/models"
)

// MockGenerator is a mock for llm.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockContributionStore is a mock for services.ContributionStore
type MockContributionStore struct {
	mock.Mock
}

func (m *MockContributionStore) Submit(ctx context.Context, req *models.SubmitContributionRequest) (*models.Contribution, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contribution), args.Error(1)
}

func (m *MockContributionStore) ListRecent(ctx context.Context, limit int) ([]models.Contribution, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contribution), args.Error(1)
}

func (m *MockContributionStore) ListByStatus(ctx context.Context, status models.ContributionStatus, limit int) ([]models.Contribution, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contribution), args.Error(1)
}

func (m *MockContributionStore) Get(ctx context.Context, id string) (*models.Contribution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contribution), args.Error(1)
}

func (m *MockContributionStore) Moderate(ctx context.Context, id string, req *models.ModerationRequest) (*models.Contribution, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contribution), args.Error(1)
}
