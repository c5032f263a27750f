package app

import (
	"fmt"

	connectionHTTP "github.com/allisson/nexusdb/internal/connection/http"
	connectionRepository "github.com/allisson/nexusdb/internal/connection/repository"
	connectionUseCase "github.com/allisson/nexusdb/internal/connection/usecase"
	"github.com/allisson/nexusdb/internal/database"
	"github.com/allisson/nexusdb/internal/validation"
)

// QueryGuard returns the shared query and identifier guard.
func (c *Container) QueryGuard() *validation.QueryGuard {
	c.queryGuardInit.Do(func() {
		c.queryGuard = validation.NewQueryGuard()
	})
	return c.queryGuard
}

// ConnectionRepository returns the connection repository based on database driver.
func (c *Container) ConnectionRepository() (connectionUseCase.ConnectionRepository, error) {
	var err error
	c.connectionRepositoryInit.Do(func() {
		c.connectionRepository, err = c.initConnectionRepository()
		if err != nil {
			c.initErrors["connectionRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["connectionRepository"]; exists {
		return nil, storedErr
	}
	return c.connectionRepository, nil
}

// ConnectionUseCase returns the connection use case.
func (c *Container) ConnectionUseCase() (connectionUseCase.ConnectionUseCase, error) {
	var err error
	c.connectionUseCaseInit.Do(func() {
		c.connectionUseCase, err = c.initConnectionUseCase()
		if err != nil {
			c.initErrors["connectionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["connectionUseCase"]; exists {
		return nil, storedErr
	}
	return c.connectionUseCase, nil
}

// ConnectionHandler returns the HTTP handler for connection management.
func (c *Container) ConnectionHandler() (*connectionHTTP.ConnectionHandler, error) {
	var err error
	c.connectionHandlerInit.Do(func() {
		var useCase connectionUseCase.ConnectionUseCase
		useCase, err = c.ConnectionUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get connection use case for connection handler: %w", err)
			c.initErrors["connectionHandler"] = err
			return
		}
		c.connectionHandler = connectionHTTP.NewConnectionHandler(useCase, c.QueryGuard(), c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["connectionHandler"]; exists {
		return nil, storedErr
	}
	return c.connectionHandler, nil
}

// initConnectionRepository creates the connection repository based on the database driver.
func (c *Container) initConnectionRepository() (connectionUseCase.ConnectionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for connection repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return connectionRepository.NewPostgreSQLConnectionRepository(db), nil
	case database.DriverMySQL:
		return connectionRepository.NewMySQLConnectionRepository(db), nil
	case database.DriverSQLite:
		return connectionRepository.NewSQLiteConnectionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initConnectionUseCase creates the connection use case.
func (c *Container) initConnectionUseCase() (connectionUseCase.ConnectionUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for connection use case: %w", err)
	}
	repo, err := c.ConnectionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection repository for connection use case: %w", err)
	}
	cipher, err := c.CredentialCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential cipher for connection use case: %w", err)
	}

	useCase := connectionUseCase.NewConnectionUseCase(txManager, repo, cipher, c.QueryGuard(), c.Logger(), nil)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for connection use case: %w", err)
		}
		return connectionUseCase.NewConnectionUseCaseWithMetrics(useCase, businessMetrics), nil
	}

	return useCase, nil
}
