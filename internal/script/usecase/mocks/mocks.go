// Package mocks provides testify mock implementations of the script use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	scriptDomain "github.com/allisson/nexusdb/internal/script/domain"
)

// MockScriptUseCase is a mock implementation of usecase.ScriptUseCase.
type MockScriptUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockScriptUseCase) Create(
	ctx context.Context,
	identity authDomain.Identity,
	input *scriptDomain.ScriptInput,
) (*scriptDomain.Script, error) {
	args := m.Called(ctx, identity, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scriptDomain.Script), args.Error(1)
}

// List mocks the List method.
func (m *MockScriptUseCase) List(
	ctx context.Context,
	identity authDomain.Identity,
	offset, limit int,
) ([]*scriptDomain.Script, error) {
	args := m.Called(ctx, identity, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scriptDomain.Script), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockScriptUseCase) Delete(ctx context.Context, identity authDomain.Identity, id uuid.UUID) error {
	args := m.Called(ctx, identity, id)
	return args.Error(0)
}

// MockScriptRepository is a mock implementation of usecase.ScriptRepository.
type MockScriptRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockScriptRepository) Create(ctx context.Context, script *scriptDomain.Script) error {
	args := m.Called(ctx, script)
	return args.Error(0)
}

// List mocks the List method.
func (m *MockScriptRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*scriptDomain.Script, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scriptDomain.Script), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockScriptRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
