// Package app is the composition root: it opens the store, the cache and the
// broker and wires them into the use-case handlers shared by every entry point.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/taskpilot/adapter/api"
	insightsApp "github.com/felixgeelhaar/taskpilot/internal/insights/application"
	insightsQueries "github.com/felixgeelhaar/taskpilot/internal/insights/application/queries"
	insightsDomain "github.com/felixgeelhaar/taskpilot/internal/insights/domain"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/commands"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/services"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/cache"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskpilot/pkg/config"
	"github.com/felixgeelhaar/taskpilot/pkg/observability"
)

// cachePrefix namespaces the service's keys in a shared Redis.
const cachePrefix = "taskpilot:"

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Health  *observability.HealthRegistry
	Clock   func() time.Time

	// Infrastructure
	DBConn         database.Connection
	RedisClient    *redis.Client
	Cache          cache.Cache
	EventPublisher eventbus.Publisher

	// Repositories
	TaskRepo   TaskStore
	StatsRepo  insightsDomain.StatsRepository
	OutboxRepo outbox.Repository
	UnitOfWork *database.GenericUnitOfWork

	// Productivity aggregator
	Aggregator *insightsApp.Aggregator

	// Task command handlers
	CreateTaskHandler *commands.CreateTaskHandler
	UpdateTaskHandler *commands.UpdateTaskHandler
	DeleteTaskHandler *commands.DeleteTaskHandler

	// Query handlers
	GetTaskHandler         *queries.GetTaskHandler
	ListTasksHandler       *queries.ListTasksHandler
	ListPendingHandler     *queries.ListPendingHandler
	GetOverviewHandler     *queries.GetOverviewHandler
	GetProductivityHandler *insightsQueries.GetProductivityHandler

	// Engines
	SmartSortEngine  *services.SmartSortEngine
	SuggestionEngine *services.SuggestionEngine

	// Outbox delivery
	OutboxProcessor *outbox.Processor
}

// Option customizes a container before its handlers are built.
type Option func(*Container)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) { c.Clock = clock }
}

// WithMetrics replaces the metrics sink.
func WithMetrics(m observability.Metrics) Option {
	return func(c *Container) { c.Metrics = m }
}

// WithQuotePicker replaces the random motivation quote picker.
func WithQuotePicker(pick services.QuotePicker) Option {
	return func(c *Container) { c.SuggestionEngine = services.NewSuggestionEngine(pick) }
}

// NewContainer connects to the configured store, applies the migrations and
// wires every handler. Redis and RabbitMQ are optional: when their URL is
// empty the cache and the publisher fall back to no-op implementations.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NoopMetrics{},
		Health:  observability.NewHealthRegistry(),
		Clock:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := c.initCache(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initPublisher(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initHandlers(); err != nil {
		c.Close()
		return nil, err
	}

	logger.Info("container initialized",
		"driver", c.DBConn.Driver(),
		"cache", c.RedisClient != nil,
		"strict_dates", cfg.StrictDates,
	)
	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	conn, err := database.NewConnection(ctx, database.Config{
		URL:        c.Config.DatabaseURL,
		SQLitePath: c.Config.SQLitePath,
		MaxConns:   c.Config.DBMaxConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.Logger.Info("connected to database", "driver", conn.Driver())

	applied, err := migrations.Run(ctx, conn)
	if err != nil {
		conn.Close()
		c.DBConn = nil
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) > 0 {
		c.Logger.Info("applied migrations", "versions", applied)
	}

	c.Health.Register(observability.ComponentTaskStore, observability.TaskStoreChecker(conn.Ping))
	return nil
}

func (c *Container) initCache(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		c.Cache = cache.NoopCache{}
		return nil
	}

	client, err := cache.NewRedisClient(c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, caching disabled", "error", err)
		c.Cache = cache.NoopCache{}
		return nil
	}
	if err := client.Ping(ctx).Err(); err != nil {
		if !c.Config.IsDevelopment() {
			client.Close()
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		// The breaker turns later failures into misses, so keep the client.
		c.Logger.Warn("Redis not available yet", "error", err)
	} else {
		c.Logger.Info("connected to Redis")
	}

	redisCache := cache.NewRedisCache(client, cachePrefix, cache.DefaultBreakerConfig(), c.Logger)
	c.RedisClient = client
	c.Cache = redisCache
	c.Health.Register(observability.ComponentStatsCache, observability.StatsCacheChecker(redisCache.Ping))
	return nil
}

func (c *Container) initPublisher() error {
	if c.Config.RabbitMQURL == "" {
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		return nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Config.RabbitMQExchange, c.Logger)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		return nil
	}
	c.EventPublisher = publisher
	c.Health.Register(observability.ComponentEventBroker, observability.EventBrokerChecker(publisher.Check))
	return nil
}

func (c *Container) initHandlers() error {
	factory := NewRepositoryFactory(c.DBConn)

	var err error
	if c.TaskRepo, err = factory.TaskRepository(); err != nil {
		return err
	}
	if c.StatsRepo, err = factory.StatsRepository(); err != nil {
		return err
	}
	if c.OutboxRepo, err = factory.OutboxRepository(); err != nil {
		return err
	}
	c.UnitOfWork = factory.UnitOfWork()

	c.Aggregator = insightsApp.NewAggregator(c.StatsRepo, c.Clock)

	cmdOpts := commands.Options{
		Clock:       c.Clock,
		StrictDates: c.Config.StrictDates,
		Cache:       c.Cache,
		Metrics:     c.Metrics,
		Logger:      c.Logger,
	}
	c.CreateTaskHandler = commands.NewCreateTaskHandler(c.TaskRepo, c.OutboxRepo, c.Aggregator, c.UnitOfWork, cmdOpts)
	c.UpdateTaskHandler = commands.NewUpdateTaskHandler(c.TaskRepo, c.OutboxRepo, c.Aggregator, c.UnitOfWork, cmdOpts)
	c.DeleteTaskHandler = commands.NewDeleteTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork, cmdOpts)

	c.GetTaskHandler = queries.NewGetTaskHandler(c.TaskRepo)
	c.ListTasksHandler = queries.NewListTasksHandler(c.TaskRepo)
	c.ListPendingHandler = queries.NewListPendingHandler(c.TaskRepo)
	c.GetOverviewHandler = queries.NewGetOverviewHandler(
		c.TaskRepo, c.Cache, c.Config.StatsCacheTTL, c.Clock, c.Metrics, c.Logger,
	)
	c.GetProductivityHandler = insightsQueries.NewGetProductivityHandler(c.StatsRepo, c.Clock)

	c.SmartSortEngine = services.NewSmartSortEngine(services.DefaultSmartSortConfig())
	if c.SuggestionEngine == nil {
		c.SuggestionEngine = services.NewSuggestionEngine(nil)
	}

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
		PollInterval: c.Config.OutboxPollInterval,
		BatchSize:    c.Config.OutboxBatchSize,
		MaxRetries:   c.Config.OutboxMaxRetries,
	}, c.Logger, outbox.WithMetrics(c.Metrics), outbox.WithClock(c.Clock))
	return nil
}

// APIHandlers returns the handler set the HTTP API dispatches to.
func (c *Container) APIHandlers() api.Handlers {
	return api.Handlers{
		CreateTask:      c.CreateTaskHandler,
		UpdateTask:      c.UpdateTaskHandler,
		DeleteTask:      c.DeleteTaskHandler,
		GetTask:         c.GetTaskHandler,
		ListTasks:       c.ListTasksHandler,
		ListPending:     c.ListPendingHandler,
		GetOverview:     c.GetOverviewHandler,
		GetProductivity: c.GetProductivityHandler,
		SmartSort:       c.SmartSortEngine,
		Suggestions:     c.SuggestionEngine,
	}
}

// APIOptions returns the server collaborators owned by the container.
func (c *Container) APIOptions() api.Options {
	return api.Options{
		Health:  c.Health,
		Metrics: c.Metrics,
		Logger:  c.Logger,
		Clock:   c.Clock,
	}
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBConn.Driver())
		}
	}
}
