package app

import (
	"fmt"

	abuseService "github.com/allisson/nexusdb/internal/abuse/service"
	banHTTP "github.com/allisson/nexusdb/internal/ban/http"
	banRepository "github.com/allisson/nexusdb/internal/ban/repository"
	banUseCase "github.com/allisson/nexusdb/internal/ban/usecase"
	challengeHTTP "github.com/allisson/nexusdb/internal/challenge/http"
	challengeRepository "github.com/allisson/nexusdb/internal/challenge/repository"
	challengeUseCase "github.com/allisson/nexusdb/internal/challenge/usecase"
	"github.com/allisson/nexusdb/internal/database"
)

// BanRepository returns the append-only ban repository based on database driver.
func (c *Container) BanRepository() (banUseCase.BanRepository, error) {
	var err error
	c.banRepositoryInit.Do(func() {
		c.banRepository, err = c.initBanRepository()
		if err != nil {
			c.initErrors["banRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["banRepository"]; exists {
		return nil, storedErr
	}
	return c.banRepository, nil
}

// BanUseCase returns the ban use case.
func (c *Container) BanUseCase() (banUseCase.BanUseCase, error) {
	var err error
	c.banUseCaseInit.Do(func() {
		c.banUseCase, err = c.initBanUseCase()
		if err != nil {
			c.initErrors["banUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["banUseCase"]; exists {
		return nil, storedErr
	}
	return c.banUseCase, nil
}

// BanGate returns the gate rejecting banned IPs and users.
func (c *Container) BanGate() (*banHTTP.BanGate, error) {
	var err error
	c.banGateInit.Do(func() {
		var useCase banUseCase.BanUseCase
		useCase, err = c.BanUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get ban use case for ban gate: %w", err)
			c.initErrors["banGate"] = err
			return
		}
		c.banGate = banHTTP.NewBanGate(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["banGate"]; exists {
		return nil, storedErr
	}
	return c.banGate, nil
}

// BruteForceGuard returns the login failure counter that escalates to IP bans.
func (c *Container) BruteForceGuard() (*abuseService.BruteForceGuard, error) {
	var err error
	c.bruteForceGuardInit.Do(func() {
		var useCase banUseCase.BanUseCase
		useCase, err = c.BanUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get ban use case for brute force guard: %w", err)
			c.initErrors["bruteForceGuard"] = err
			return
		}
		c.bruteForceGuard = abuseService.NewBruteForceGuard(abuseService.Config{
			MaxAttempts: c.config.LockoutMaxAttempts,
			Window:      c.config.LockoutWindow,
			BanDuration: c.config.LockoutDuration,
		}, useCase, c.Logger(), nil)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["bruteForceGuard"]; exists {
		return nil, storedErr
	}
	return c.bruteForceGuard, nil
}

// ChallengeStore returns the pending challenge store selected by CHALLENGE_STORE.
func (c *Container) ChallengeStore() (challengeUseCase.ChallengeStore, error) {
	var err error
	c.challengeStoreInit.Do(func() {
		c.challengeStore, err = c.initChallengeStore()
		if err != nil {
			c.initErrors["challengeStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["challengeStore"]; exists {
		return nil, storedErr
	}
	return c.challengeStore, nil
}

// ChallengeUseCase returns the proof-of-work challenge use case.
func (c *Container) ChallengeUseCase() (challengeUseCase.ChallengeUseCase, error) {
	var err error
	c.challengeUseCaseInit.Do(func() {
		c.challengeUseCase, err = c.initChallengeUseCase()
		if err != nil {
			c.initErrors["challengeUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["challengeUseCase"]; exists {
		return nil, storedErr
	}
	return c.challengeUseCase, nil
}

// ChallengeHandler returns the HTTP handler issuing challenges.
func (c *Container) ChallengeHandler() (*challengeHTTP.ChallengeHandler, error) {
	var err error
	c.challengeHandlerInit.Do(func() {
		var useCase challengeUseCase.ChallengeUseCase
		useCase, err = c.ChallengeUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get challenge use case for challenge handler: %w", err)
			c.initErrors["challengeHandler"] = err
			return
		}
		c.challengeHandler = challengeHTTP.NewChallengeHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["challengeHandler"]; exists {
		return nil, storedErr
	}
	return c.challengeHandler, nil
}

// initBanRepository creates the ban repository based on the database driver.
func (c *Container) initBanRepository() (banUseCase.BanRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for ban repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return banRepository.NewPostgreSQLBanRepository(db), nil
	case database.DriverMySQL:
		return banRepository.NewMySQLBanRepository(db), nil
	case database.DriverSQLite:
		return banRepository.NewSQLiteBanRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initBanUseCase creates the ban use case.
func (c *Container) initBanUseCase() (banUseCase.BanUseCase, error) {
	repo, err := c.BanRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get ban repository for ban use case: %w", err)
	}

	useCase := banUseCase.NewBanUseCase(repo, nil)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for ban use case: %w", err)
		}
		return banUseCase.NewBanUseCaseWithMetrics(useCase, businessMetrics), nil
	}

	return useCase, nil
}

// initChallengeStore creates the in-memory store, or the redis store when configured.
func (c *Container) initChallengeStore() (challengeUseCase.ChallengeStore, error) {
	switch c.config.ChallengeStore {
	case "", "memory":
		return challengeRepository.NewMemoryChallengeStore(c.config.ChallengeMaxPending, nil), nil
	case "redis":
		client, err := c.RedisClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for challenge store: %w", err)
		}
		return challengeRepository.NewRedisChallengeStore(client, nil), nil
	default:
		return nil, fmt.Errorf("unsupported challenge store: %s", c.config.ChallengeStore)
	}
}

// initChallengeUseCase creates the challenge use case.
func (c *Container) initChallengeUseCase() (challengeUseCase.ChallengeUseCase, error) {
	store, err := c.ChallengeStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge store for challenge use case: %w", err)
	}

	useCase := challengeUseCase.NewChallengeUseCase(store, c.config.PoWDifficulty, c.config.ChallengeTTL, nil)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for challenge use case: %w", err)
		}
		return challengeUseCase.NewChallengeUseCaseWithMetrics(useCase, businessMetrics), nil
	}

	return useCase, nil
}
