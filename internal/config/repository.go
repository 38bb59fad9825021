package config

import (
	"fmt"
	"os"
	"strings"

	"haulboard/internal/repository/sqlite"
)

// Environment selects where the database lives
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// ParseEnvironment parses an environment name. The empty string yields Production.
func ParseEnvironment(s string) (Environment, error) {
	switch env := Environment(strings.ToLower(strings.TrimSpace(s))); env {
	case "":
		return Production, nil
	case Development, Testing, Production:
		return env, nil
	default:
		return "", fmt.Errorf("unknown environment %q (want development, testing or production)", s)
	}
}

// RepositoryFactory creates repository instances based on environment
type RepositoryFactory struct {
	config *Config
}

// NewRepositoryFactory creates a new repository factory for the given configuration
func NewRepositoryFactory(config *Config) *RepositoryFactory {
	return &RepositoryFactory{config: config}
}

// DatabasePath returns the path the factory opens:
// development uses ./hb.db, testing an in-memory database and production
// the configured directory and filename.
func (rf *RepositoryFactory) DatabasePath() string {
	env, _ := ParseEnvironment(rf.config.Application.Environment)
	switch env {
	case Development:
		return "hb.db"
	case Testing:
		return ":memory:"
	default:
		return rf.config.GetDatabasePath()
	}
}

// CreateRepository opens the repository for the configured environment
func (rf *RepositoryFactory) CreateRepository() (sqlite.Repository, error) {
	env, err := ParseEnvironment(rf.config.Application.Environment)
	if err != nil {
		return nil, err
	}

	if env == Production {
		if err := os.MkdirAll(rf.config.Database.Dir, os.FileMode(rf.config.Database.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	repo, err := sqlite.NewWithOptions(rf.DatabasePath(), sqlite.Options{
		QueryTimeout: rf.config.GetQueryTimeout(),
		WriteTimeout: rf.config.GetWriteTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database: %w", env, err)
	}

	return repo, nil
}

// CreateRepository creates a repository instance using the configuration system
func CreateRepository(config *Config) (sqlite.Repository, error) {
	return NewRepositoryFactory(config).CreateRepository()
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (sqlite.Repository, error) {
	repo, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return repo, nil
}
