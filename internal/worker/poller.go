package worker

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pratik-mahalle/voltcast-alerts/internal/config"
	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/logger"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/metrics"
	"github.com/pratik-mahalle/voltcast-alerts/internal/repository/postgres"
)

const (
	maxBodyBytes   = 1 << 20
	bodyLogPreview = 200
)

// Source is one telemetry service polled every cycle
type Source struct {
	Name string
	URL  string
}

// DefaultSources returns the inverter services configured in cfg
func DefaultSources(cfg config.PollerConfig) []Source {
	return []Source{
		{Name: "Kostal", URL: cfg.KostalURL},
		{Name: "Fronius", URL: cfg.FroniusURL},
	}
}

// Reading is one metric value extracted from a telemetry document
type Reading struct {
	Metric string
	Value  float64
}

// Poller periodically pulls telemetry and dispatches rule violations inline
type Poller struct {
	db         *sql.DB
	dialect    postgres.Dialect
	sources    []Source
	dispatcher rule.Dispatcher
	httpClient *http.Client
	interval   time.Duration
	logger     *logger.Logger
}

// NewPoller creates a new telemetry poller
func NewPoller(
	db *sql.DB,
	dialect postgres.Dialect,
	sources []Source,
	dispatcher rule.Dispatcher,
	cfg config.PollerConfig,
	log *logger.Logger,
) *Poller {
	return &Poller{
		db:         db,
		dialect:    dialect,
		sources:    sources,
		dispatcher: dispatcher,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		interval:   cfg.Interval,
		logger:     log.WithComponent("poller"),
	}
}

// Run polls until ctx is cancelled, waiting the configured interval after
// each cycle
func (p *Poller) Run(ctx context.Context) {
	p.logger.WithFields(map[string]interface{}{
		"interval": p.interval.String(),
		"sources":  len(p.sources),
	}).Info("Starting telemetry poller")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Telemetry poller stopped")
			return
		case <-timer.C:
			p.RunCycle(ctx)
			timer.Reset(p.interval)
		}
	}
}

// RunCycle fetches every source, then evaluates each extracted reading
// against the active rules for its metric
func (p *Poller) RunCycle(ctx context.Context) {
	start := time.Now()
	defer func() { metrics.RecordPollCycle(time.Since(start)) }()

	docs := p.fetchAll(ctx)

	var readings []Reading
	for _, doc := range docs {
		readings = append(readings, Extract(doc)...)
	}

	if err := p.evaluate(ctx, readings); err != nil {
		p.logger.ErrorWithErr(err, "Poll cycle evaluation failed")
	}
}

// fetchAll issues every fetch before waiting on any of them. Failed
// sources contribute nothing.
func (p *Poller) fetchAll(ctx context.Context) []map[string]interface{} {
	results := make([]map[string]interface{}, len(p.sources))

	var wg sync.WaitGroup
	for i, src := range p.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			results[i] = p.fetch(ctx, src)
		}(i, src)
	}
	wg.Wait()

	docs := make([]map[string]interface{}, 0, len(results))
	for _, doc := range results {
		if doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs
}

func (p *Poller) fetch(ctx context.Context, src Source) (doc map[string]interface{}) {
	log := p.logger.With("source", src.Name)

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Unexpected error polling %s: %v", src.Name, r)
			doc = nil
		}
		status := "ok"
		if doc == nil {
			status = "error"
		}
		metrics.RecordPollFetch(src.Name, status)
	}()

	log.Infof("Polling %s at %s...", src.Name, src.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		log.WithError(err).Errorf("Unexpected error polling %s", src.Name)
		return nil
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Errorf("Network error polling %s", src.Name)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.WithError(err).Errorf("Network error polling %s", src.Name)
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Errorf("HTTP error polling %s: %d - %s", src.Name, resp.StatusCode, string(body))
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		log.WithError(err).Errorf("Unexpected error polling %s", src.Name)
		return nil
	}

	log.Infof("Successfully fetched %s data: %s...", src.Name, preview(body))
	return doc
}

// evaluate dispatches every violation found by collect. Delivery runs only
// after the cycle's connection is back in the pool.
func (p *Poller) evaluate(ctx context.Context, readings []Reading) error {
	violations, err := p.collect(ctx, readings)
	for _, v := range violations {
		p.dispatcher.Dispatch(ctx, v.Rule, v.ActualValue)
	}
	return err
}

// collect holds one connection for the rule lookups of the whole pass and
// always returns it
func (p *Poller) collect(ctx context.Context, readings []Reading) ([]rule.Violation, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	repo := postgres.NewRuleRepository(conn, p.dialect)

	var violations []rule.Violation
	for _, reading := range readings {
		rules, err := repo.ListActiveByMetric(ctx, reading.Metric)
		if err != nil {
			p.logger.With("metric_type", reading.Metric).ErrorWithErr(err, "Failed to load rules for metric")
			continue
		}

		matched := rule.Match(rules, reading.Value)
		metrics.RecordEvaluations("poll", len(rules), len(matched))
		violations = append(violations, matched...)
	}

	return violations, nil
}

// Extract returns realtime_data.<metric>.value for every metric whose value
// is a number or a numeric string, ordered by metric name
func Extract(doc map[string]interface{}) []Reading {
	data, ok := doc["realtime_data"].(map[string]interface{})
	if !ok {
		return nil
	}

	readings := make([]Reading, 0, len(data))
	for metric, raw := range data {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		value, ok := toFloat(entry["value"])
		if !ok {
			continue
		}
		readings = append(readings, Reading{Metric: metric, Value: value})
	}

	sort.Slice(readings, func(i, j int) bool { return readings[i].Metric < readings[j].Metric })
	return readings
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func preview(body []byte) string {
	s := string(body)
	if len(s) <= bodyLogPreview {
		return s
	}
	return s[:bodyLogPreview]
}
