package services

import (
	"context"
	"sync"

	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/logger"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/metrics"
)

// ViolationQueue accepts violations for asynchronous dispatch. Submit must
// not block and reports false when the queue is full.
type ViolationQueue interface {
	Submit(v rule.Violation) bool
}

// IngestionService evaluates pushed measurements against the user's rules
type IngestionService struct {
	repo       rule.Repository
	queue      ViolationQueue
	dispatcher rule.Dispatcher
	logger     *logger.Logger

	// detached tracks dispatches started when the queue was full
	detached sync.WaitGroup
}

// NewIngestionService creates an ingestion service. dispatcher is used
// directly only when the queue rejects a violation.
func NewIngestionService(repo rule.Repository, queue ViolationQueue, dispatcher rule.Dispatcher, log *logger.Logger) *IngestionService {
	return &IngestionService{
		repo:       repo,
		queue:      queue,
		dispatcher: dispatcher,
		logger:     log.WithComponent("ingestion"),
	}
}

// Process queues a dispatch for every active rule of the measurement's user
// and metric that the value violates. It returns the number queued and
// never waits for delivery.
func (s *IngestionService) Process(ctx context.Context, m rule.Measurement) (int, error) {
	rules, err := s.repo.ListActiveByUserAndMetric(ctx, m.UserID, m.MetricType)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to load rules for measurement")
		return 0, err
	}

	violations := rule.Match(rules, m.Value)
	metrics.RecordEvaluations("ingest", len(rules), len(violations))

	for _, v := range violations {
		if s.queue.Submit(v) {
			continue
		}

		s.logger.With("rule_id", v.Rule.ID).Warn("Dispatch queue full, dispatching on a detached goroutine")
		s.detached.Add(1)
		go func(v rule.Violation) {
			defer s.detached.Done()
			s.dispatcher.Dispatch(context.WithoutCancel(ctx), v.Rule, v.ActualValue)
		}(v)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":     m.UserID,
		"metric_type": m.MetricType,
		"value":       m.Value,
		"timestamp":   m.Timestamp,
		"rules":       len(rules),
		"violations":  len(violations),
	}).Debug("Measurement processed")

	return len(violations), nil
}

// Wait blocks until every detached dispatch has returned. Call it after the
// HTTP server has stopped accepting measurements.
func (s *IngestionService) Wait() {
	s.detached.Wait()
}
