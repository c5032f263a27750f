package app

import (
	"fmt"

	"github.com/allisson/nexusdb/internal/database"
	scriptHTTP "github.com/allisson/nexusdb/internal/script/http"
	scriptRepository "github.com/allisson/nexusdb/internal/script/repository"
	scriptUseCase "github.com/allisson/nexusdb/internal/script/usecase"
)

// ScriptRepository returns the script repository based on database driver.
func (c *Container) ScriptRepository() (scriptUseCase.ScriptRepository, error) {
	var err error
	c.scriptRepositoryInit.Do(func() {
		c.scriptRepository, err = c.initScriptRepository()
		if err != nil {
			c.initErrors["scriptRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["scriptRepository"]; exists {
		return nil, storedErr
	}
	return c.scriptRepository, nil
}

// ScriptUseCase returns the script use case.
func (c *Container) ScriptUseCase() (scriptUseCase.ScriptUseCase, error) {
	var err error
	c.scriptUseCaseInit.Do(func() {
		c.scriptUseCase, err = c.initScriptUseCase()
		if err != nil {
			c.initErrors["scriptUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["scriptUseCase"]; exists {
		return nil, storedErr
	}
	return c.scriptUseCase, nil
}

// ScriptHandler returns the HTTP handler for saved scripts.
func (c *Container) ScriptHandler() (*scriptHTTP.ScriptHandler, error) {
	var err error
	c.scriptHandlerInit.Do(func() {
		var useCase scriptUseCase.ScriptUseCase
		useCase, err = c.ScriptUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get script use case for script handler: %w", err)
			c.initErrors["scriptHandler"] = err
			return
		}
		c.scriptHandler = scriptHTTP.NewScriptHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["scriptHandler"]; exists {
		return nil, storedErr
	}
	return c.scriptHandler, nil
}

func (c *Container) initScriptRepository() (scriptUseCase.ScriptRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for script repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return scriptRepository.NewPostgreSQLScriptRepository(db), nil
	case database.DriverMySQL:
		return scriptRepository.NewMySQLScriptRepository(db), nil
	case database.DriverSQLite:
		return scriptRepository.NewSQLiteScriptRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initScriptUseCase() (scriptUseCase.ScriptUseCase, error) {
	repo, err := c.ScriptRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get script repository for script use case: %w", err)
	}

	useCase := scriptUseCase.NewScriptUseCase(repo, c.QueryGuard(), c.Logger(), nil)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for script use case: %w", err)
		}
		return scriptUseCase.NewScriptUseCaseWithMetrics(useCase, businessMetrics), nil
	}

	return useCase, nil
}
