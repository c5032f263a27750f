// Package mocks provides testify mock implementations of the connection use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	connectionDomain "github.com/allisson/nexusdb/internal/connection/domain"
)

// MockConnectionUseCase is a mock implementation of usecase.ConnectionUseCase.
type MockConnectionUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockConnectionUseCase) Create(
	ctx context.Context,
	identity authDomain.Identity,
	input *connectionDomain.ConnectionInput,
) (*connectionDomain.Connection, error) {
	args := m.Called(ctx, identity, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*connectionDomain.Connection), args.Error(1)
}

// Get mocks the Get method.
func (m *MockConnectionUseCase) Get(
	ctx context.Context,
	identity authDomain.Identity,
	id uuid.UUID,
) (*connectionDomain.Connection, error) {
	args := m.Called(ctx, identity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*connectionDomain.Connection), args.Error(1)
}

// List mocks the List method.
func (m *MockConnectionUseCase) List(
	ctx context.Context,
	identity authDomain.Identity,
	offset, limit int,
) ([]*connectionDomain.Connection, error) {
	args := m.Called(ctx, identity, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*connectionDomain.Connection), args.Error(1)
}

// Update mocks the Update method.
func (m *MockConnectionUseCase) Update(
	ctx context.Context,
	identity authDomain.Identity,
	id uuid.UUID,
	input *connectionDomain.ConnectionInput,
) (*connectionDomain.Connection, error) {
	args := m.Called(ctx, identity, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*connectionDomain.Connection), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockConnectionUseCase) Delete(ctx context.Context, identity authDomain.Identity, id uuid.UUID) error {
	args := m.Called(ctx, identity, id)
	return args.Error(0)
}

// Execute mocks the Execute method.
func (m *MockConnectionUseCase) Execute(
	ctx context.Context,
	identity authDomain.Identity,
	id uuid.UUID,
	query string,
) (*connectionDomain.QueryResult, error) {
	args := m.Called(ctx, identity, id, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*connectionDomain.QueryResult), args.Error(1)
}

// MockConnectionRepository is a mock implementation of usecase.ConnectionRepository.
type MockConnectionRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockConnectionRepository) Create(ctx context.Context, conn *connectionDomain.Connection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockConnectionRepository) Get(ctx context.Context, id, userID uuid.UUID) (*connectionDomain.Connection, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*connectionDomain.Connection), args.Error(1)
}

// List mocks the List method.
func (m *MockConnectionRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*connectionDomain.Connection, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*connectionDomain.Connection), args.Error(1)
}

// Update mocks the Update method.
func (m *MockConnectionRepository) Update(ctx context.Context, conn *connectionDomain.Connection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

// Delete mocks the Delete method.
func (m *MockConnectionRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockTxManager is a mock implementation of database.TxManager that runs fn inline.
type MockTxManager struct {
	mock.Mock
}

// WithTx mocks the WithTx method.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
