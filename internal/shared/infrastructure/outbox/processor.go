package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/taskpilot/internal/shared/domain"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskpilot/pkg/observability"
)

// deliverOperation names outbox deliveries in logs.
const deliverOperation = "outbox.deliver"

// ProcessorConfig controls polling and retry behaviour. Zero fields take the
// value from DefaultProcessorConfig.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
}

// DefaultProcessorConfig polls ten times a second and gives up on an event
// after five failed publishes.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     100 * time.Millisecond,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
	}
}

func (c ProcessorConfig) withDefaults() ProcessorConfig {
	d := DefaultProcessorConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.RetryBackoffBase <= 0 {
		c.RetryBackoffBase = d.RetryBackoffBase
	}
	if c.RetryBackoffMax < c.RetryBackoffBase {
		c.RetryBackoffMax = max(d.RetryBackoffMax, c.RetryBackoffBase)
	}
	return c
}

// ProcessorOption customises a Processor.
type ProcessorOption func(*Processor)

// WithMetrics records delivery counters tagged by routing key, plus the
// outbox lag gauge.
func WithMetrics(m observability.Metrics) ProcessorOption {
	return func(p *Processor) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithClock replaces time.Now for retry scheduling and stats.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// Processor relays task events from the outbox table to the broker. A failed
// publish is retried with exponential backoff until MaxRetries attempts have
// failed, then the event is dead-lettered and stays in the table for
// inspection.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger
	metrics   observability.Metrics
	now       func() time.Time

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	statsMu sync.Mutex
	stats   Stats
}

// NewProcessor creates a stopped processor.
func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger, opts ...ProcessorOption) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config.withDefaults(),
		logger:    logger,
		metrics:   observability.NoopMetrics{},
		now:       time.Now,
		stats:     Stats{PublishedByRoutingKey: make(map[string]uint64)},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the polling loop. Calling Start on a running processor is a
// no-op.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}
	p.running = true
	p.stopChan = make(chan struct{})

	p.wg.Add(1)
	go p.run(ctx, p.stopChan)

	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
		"max_retries", p.config.MaxRetries,
	)
	return nil
}

// Stop ends the loop and waits for the batch in flight.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("outbox processor stopped")
}

// IsRunning reports whether the loop is active.
func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Processor) run(ctx context.Context, stop <-chan struct{}) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			if err := p.ProcessOnce(ctx); err != nil {
				p.logger.ErrorContext(ctx, "failed to read outbox batch", "error", err)
			}
		}
	}
}

// ProcessOnce delivers one batch synchronously. Only a failure to read the
// outbox is returned; per-event failures are recorded and retried later.
func (p *Processor) ProcessOnce(ctx context.Context) error {
	messages, err := p.repo.GetUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		p.recordError(err)
		return err
	}

	p.recordBatch(messages)
	for _, msg := range messages {
		p.deliver(ctx, msg)
	}
	return nil
}

func (p *Processor) deliver(ctx context.Context, msg *Message) {
	ctx, causationID := p.eventScope(ctx, msg)
	log := p.logger.With(
		"outbox_id", msg.ID,
		"event_id", msg.EventID,
		"routing_key", msg.RoutingKey,
		"task_id", msg.AggregateID,
	)
	if causationID != "" {
		log = log.With("causation_id", causationID)
	}
	tag := observability.T("routing_key", msg.RoutingKey)

	pubErr := p.publisher.Publish(ctx, msg.RoutingKey, msg.Payload)
	if pubErr == nil {
		if err := p.repo.MarkPublished(ctx, msg.ID); err != nil {
			// The event went out; it may be published again on the next poll.
			log.ErrorContext(ctx, "failed to mark event published", "error", err)
			return
		}
		p.recordPublished(msg.RoutingKey)
		p.metrics.Counter(observability.MetricEventsPublished, 1, tag)
		log.DebugContext(ctx, "event published")
		return
	}

	attempt := msg.RetryCount + 1
	if !msg.RetryAfterFailure(p.config.MaxRetries) {
		p.recordFailure(pubErr, true)
		p.metrics.Counter(observability.MetricEventsDeadLettered, 1, tag)
		log.ErrorContext(ctx, "event dead-lettered", "attempts", attempt, "error", pubErr)
		if err := p.repo.MarkDead(ctx, msg.ID, pubErr.Error()); err != nil {
			log.ErrorContext(ctx, "failed to mark event dead-lettered", "error", err)
		}
		return
	}

	nextRetryAt := p.now().Add(p.retryBackoff(attempt))
	p.recordFailure(pubErr, false)
	p.metrics.Counter(observability.MetricEventsFailed, 1, tag)
	log.WarnContext(ctx, "event publish failed, will retry",
		"attempt", attempt,
		"next_retry_at", nextRetryAt,
		"error", pubErr,
	)
	if err := p.repo.MarkFailed(ctx, msg.ID, pubErr.Error(), nextRetryAt); err != nil {
		log.ErrorContext(ctx, "failed to schedule event retry", "error", err)
	}
}

// eventScope restores the request scope the event was written under, so
// delivery logs join the logs of the request that changed the task.
func (p *Processor) eventScope(ctx context.Context, msg *Message) (context.Context, string) {
	scope := observability.Scope{Operation: deliverOperation}
	var causationID string
	if len(msg.Metadata) > 0 {
		var md domain.EventMetadata
		if err := json.Unmarshal(msg.Metadata, &md); err == nil {
			scope.CorrelationID = md.CorrelationID.String()
			scope.RequestID = md.RequestID
			causationID = md.CausationID.String()
		}
	}
	return observability.WithScope(ctx, scope), causationID
}

// retryBackoff doubles from RetryBackoffBase per attempt, capped at
// RetryBackoffMax.
func (p *Processor) retryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	shift := convert.IntToUintSafe(attempt - 1)
	if shift > 30 {
		return p.config.RetryBackoffMax
	}
	backoff := p.config.RetryBackoffBase * time.Duration(1<<shift)
	if backoff > p.config.RetryBackoffMax {
		return p.config.RetryBackoffMax
	}
	return backoff
}

// Stats is a snapshot of delivery progress since the processor was created.
type Stats struct {
	IsRunning             bool
	PublishedCount        uint64
	PublishedByRoutingKey map[string]uint64
	FailedCount           uint64
	DeadCount             uint64
	LagSeconds            float64
	LastError             string
	LastErrorAt           *time.Time
	LastProcessedAt       *time.Time
	OldestMessageAt       *time.Time
}

// GetStats returns a copy of the current stats.
func (p *Processor) GetStats() Stats {
	running := p.IsRunning()

	p.statsMu.Lock()
	defer p.statsMu.Unlock()

	s := p.stats
	s.IsRunning = running
	s.PublishedByRoutingKey = make(map[string]uint64, len(p.stats.PublishedByRoutingKey))
	for k, v := range p.stats.PublishedByRoutingKey {
		s.PublishedByRoutingKey[k] = v
	}
	return s
}

func (p *Processor) recordPublished(routingKey string) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.stats.PublishedCount++
	p.stats.PublishedByRoutingKey[routingKey]++
}

func (p *Processor) recordFailure(err error, dead bool) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	if dead {
		p.stats.DeadCount++
	} else {
		p.stats.FailedCount++
	}
	p.setLastError(err)
}

func (p *Processor) recordError(err error) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.setLastError(err)
}

// setLastError requires statsMu.
func (p *Processor) setLastError(err error) {
	now := p.now()
	p.stats.LastError = err.Error()
	p.stats.LastErrorAt = &now
}

// recordBatch tracks how far delivery lags behind the oldest pending event.
func (p *Processor) recordBatch(messages []*Message) {
	now := p.now()
	var oldest *time.Time
	for _, msg := range messages {
		if oldest == nil || msg.CreatedAt.Before(*oldest) {
			created := msg.CreatedAt
			oldest = &created
		}
	}
	lag := 0.0
	if oldest != nil {
		lag = now.Sub(*oldest).Seconds()
	}

	p.statsMu.Lock()
	p.stats.LastProcessedAt = &now
	p.stats.OldestMessageAt = oldest
	p.stats.LagSeconds = lag
	p.statsMu.Unlock()

	p.metrics.Gauge(observability.MetricOutboxLagSeconds, lag)
}
