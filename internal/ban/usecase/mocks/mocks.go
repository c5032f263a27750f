// Package mocks provides testify mock implementations of the ban use case and repository.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	banDomain "github.com/allisson/nexusdb/internal/ban/domain"
)

// MockBanUseCase is a mock implementation of usecase.BanUseCase.
type MockBanUseCase struct {
	mock.Mock
}

// Record mocks the Record method.
func (m *MockBanUseCase) Record(
	ctx context.Context,
	input *banDomain.RecordInput,
) (*banDomain.BannedEntity, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banDomain.BannedEntity), args.Error(1)
}

// IsBanned mocks the IsBanned method.
func (m *MockBanUseCase) IsBanned(ctx context.Context, kind banDomain.Kind, value string) (bool, error) {
	args := m.Called(ctx, kind, value)
	return args.Bool(0), args.Error(1)
}

// ListActive mocks the ListActive method.
func (m *MockBanUseCase) ListActive(
	ctx context.Context,
	kind banDomain.Kind,
	value string,
) ([]*banDomain.BannedEntity, error) {
	args := m.Called(ctx, kind, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*banDomain.BannedEntity), args.Error(1)
}

// MockBanRepository is a mock implementation of usecase.BanRepository.
type MockBanRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockBanRepository) Create(ctx context.Context, ban *banDomain.BannedEntity) error {
	args := m.Called(ctx, ban)
	return args.Error(0)
}

// IsBanned mocks the IsBanned method.
func (m *MockBanRepository) IsBanned(
	ctx context.Context,
	kind banDomain.Kind,
	value string,
	now time.Time,
) (bool, error) {
	args := m.Called(ctx, kind, value, now)
	return args.Bool(0), args.Error(1)
}

// ListActive mocks the ListActive method.
func (m *MockBanRepository) ListActive(
	ctx context.Context,
	kind banDomain.Kind,
	value string,
	now time.Time,
) ([]*banDomain.BannedEntity, error) {
	args := m.Called(ctx, kind, value, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*banDomain.BannedEntity), args.Error(1)
}
