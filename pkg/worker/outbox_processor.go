package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/repository"
	"github.com/newsai/admin-api/pkg/logger"
	"github.com/newsai/admin-api/pkg/messaging"
	"github.com/newsai/admin-api/pkg/metrics"
)

// Config controls outbox polling and publication
type Config struct {
	BatchSize      int
	PollInterval   time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	PublishChannel string
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 5 * time.Second
	}
	if c.PublishChannel == "" {
		c.PublishChannel = "newsai.events"
	}
	return c
}

// OutboxProcessor drains pending outbox events onto the message broker.
// Events that keep failing after MaxRetries are marked FAILED and left for
// the operator to inspect.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  Config
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(repo repository.OutboxRepository, broker messaging.Broker, config Config, log *logger.Logger, m *metrics.Metrics) *OutboxProcessor {
	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config.withDefaults(),
		logger:  log,
		metrics: m,
	}
}

// Start polls until the context is cancelled
func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("outbox processor started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor shutting down")
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error(err, "failed to process outbox batch")
			}
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	events, err := p.repo.GetPendingEvents(ctx, p.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch pending events: %w", err)
	}

	for _, evt := range events {
		if err := p.publish(ctx, evt); err != nil {
			p.metrics.OutboxEventsFailed.Inc()
			msg := err.Error()
			status := model.OutboxStatusPending
			if evt.RetryCount+1 >= p.config.MaxRetries {
				status = model.OutboxStatusFailed
			}
			if uerr := p.repo.UpdateStatus(ctx, evt.ID, status, &msg); uerr != nil {
				p.logger.Error(uerr, "failed to record publish failure", "event_id", evt.ID.String())
			}
			continue
		}

		if err := p.repo.UpdateStatus(ctx, evt.ID, model.OutboxStatusProcessed, nil); err != nil {
			p.logger.Error(err, "failed to mark event processed", "event_id", evt.ID.String())
			continue
		}
		p.metrics.OutboxEventsProcessed.Inc()
	}

	return nil
}

func (p *OutboxProcessor) publish(ctx context.Context, evt *model.OutboxEvent) error {
	var err error
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * p.config.RetryDelay):
			}
		}

		err = p.broker.Publish(ctx, p.config.PublishChannel, messaging.Message{
			Type:    evt.EventType,
			Payload: evt.Payload,
		})
		if err == nil {
			return nil
		}

		p.logger.Warn("retrying event publish",
			"event_id", evt.ID.String(), "attempt", attempt+1)
	}
	return fmt.Errorf("failed to publish event %s: %w", evt.ID, err)
}
