package app

import (
	"fmt"

	insightsDomain "github.com/felixgeelhaar/taskpilot/internal/insights/domain"
	insightsPersistence "github.com/felixgeelhaar/taskpilot/internal/insights/infrastructure/persistence"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
	productivityPersistence "github.com/felixgeelhaar/taskpilot/internal/productivity/infrastructure/persistence"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/outbox"
)

// TaskStore is what the container needs from the task repository: the
// aggregate repository plus the overview counts.
type TaskStore interface {
	task.Repository
	task.CountReader
}

// RepositoryFactory creates repositories bound to one connection. The SQL
// repositories rebind placeholders for the connection's driver, so the
// factory only has to reject drivers it has never heard of.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// TaskRepository creates the task repository.
func (f *RepositoryFactory) TaskRepository() (TaskStore, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	return productivityPersistence.NewSQLTaskRepository(f.conn), nil
}

// StatsRepository creates the daily statistics repository.
func (f *RepositoryFactory) StatsRepository() (insightsDomain.StatsRepository, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	return insightsPersistence.NewSQLStatsRepository(f.conn), nil
}

// OutboxRepository creates the outbox repository.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	return outbox.NewSQLRepository(f.conn), nil
}

// UnitOfWork creates a unit of work on the factory's connection.
func (f *RepositoryFactory) UnitOfWork() *database.GenericUnitOfWork {
	return database.NewUnitOfWork(f.conn)
}

func (f *RepositoryFactory) check() error {
	if !f.driver.IsValid() {
		return fmt.Errorf("unsupported driver: %s", f.driver)
	}
	return nil
}
