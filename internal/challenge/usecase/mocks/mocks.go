// Package mocks provides testify mocks for the challenge use case.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	challengeDomain "github.com/allisson/nexusdb/internal/challenge/domain"
)

// MockChallengeUseCase is a mock implementation of usecase.ChallengeUseCase.
type MockChallengeUseCase struct {
	mock.Mock
}

// Issue mocks the Issue method.
func (m *MockChallengeUseCase) Issue(ctx context.Context) (*challengeDomain.Challenge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*challengeDomain.Challenge), args.Error(1)
}

// IssueWithDifficulty mocks the IssueWithDifficulty method.
func (m *MockChallengeUseCase) IssueWithDifficulty(
	ctx context.Context,
	difficulty int,
) (*challengeDomain.Challenge, error) {
	args := m.Called(ctx, difficulty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*challengeDomain.Challenge), args.Error(1)
}

// Verify mocks the Verify method.
func (m *MockChallengeUseCase) Verify(ctx context.Context, id, nonce string) (bool, error) {
	args := m.Called(ctx, id, nonce)
	return args.Bool(0), args.Error(1)
}
