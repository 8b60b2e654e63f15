package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/forkdiff/internal/models"
)

type (
	MockForkSource struct {
		mock.Mock
	}

	MockProgressReporter struct {
		mock.Mock
	}
)

func (m *MockForkSource) GetRepository(ctx context.Context, ref models.RepositoryRef) (*models.ForkRecord, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ForkRecord), args.Error(1)
}

func (m *MockForkSource) ListForks(ctx context.Context, ref models.RepositoryRef, page, perPage int) ([]models.ForkRecord, error) {
	args := m.Called(ctx, ref, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ForkRecord), args.Error(1)
}

func (m *MockForkSource) CompareBranches(ctx context.Context, ref models.RepositoryRef, base, head string) (*models.Comparison, error) {
	args := m.Called(ctx, ref, base, head)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comparison), args.Error(1)
}

func (m *MockForkSource) RefreshRateLimit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockForkSource) Quota() models.QuotaSnapshot {
	args := m.Called()
	return args.Get(0).(models.QuotaSnapshot)
}

func (m *MockProgressReporter) Start(total int) {
	m.Called(total)
}

func (m *MockProgressReporter) Update(processed, total int, quota models.QuotaSnapshot) {
	m.Called(processed, total, quota)
}

func (m *MockProgressReporter) Finish(quota models.QuotaSnapshot) {
	m.Called(quota)
}
