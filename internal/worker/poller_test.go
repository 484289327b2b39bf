package worker

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pratik-mahalle/voltcast-alerts/internal/config"
	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
	"github.com/pratik-mahalle/voltcast-alerts/internal/repository/postgres"
	"github.com/pratik-mahalle/voltcast-alerts/internal/testutil"
)

func testPollerConfig() config.PollerConfig {
	return config.PollerConfig{
		Enabled:  true,
		Interval: time.Hour,
		Timeout:  2 * time.Second,
	}
}

func telemetryServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// deadURL returns the address of a server that no longer listens
func deadURL() string {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	return url
}

func seedRule(t *testing.T, repo rule.Repository, metric string, threshold float64, c rule.Condition) *rule.Rule {
	t.Helper()
	r := &rule.Rule{
		UserID:          "user1",
		MetricType:      metric,
		ThresholdValue:  threshold,
		Condition:       c,
		DeliveryChannel: rule.ChannelDashboard,
	}
	if _, err := repo.Create(context.Background(), r); err != nil {
		t.Fatalf("seed rule: %v", err)
	}
	return r
}

func TestPoller_OneSourceFails(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	seeded := seedRule(t, postgres.NewRuleRepository(db, postgres.DialectSQLite), "battery_capacity", 80.0, rule.ConditionLessThan)

	healthy := telemetryServer(t, `{"realtime_data": {"battery_capacity": {"value": 70}}}`)
	sources := []Source{
		{Name: "Kostal", URL: deadURL()},
		{Name: "Fronius", URL: healthy.URL},
	}

	dispatcher := testutil.NewRecordingDispatcher()
	poller := NewPoller(db, postgres.DialectSQLite, sources, dispatcher, testPollerConfig(), testutil.NewTestLogger())

	poller.RunCycle(context.Background())

	calls := dispatcher.Calls()
	if len(calls) != 1 {
		t.Fatalf("Dispatch() called %d times, want 1", len(calls))
	}
	if calls[0].Rule.ID != seeded.ID || calls[0].Value != 70.0 {
		t.Errorf("Dispatch() = rule %d value %v, want rule %d value 70.0", calls[0].Rule.ID, calls[0].Value, seeded.ID)
	}

	// the connection held for the cycle must be back in the pool
	if err := db.PingContext(context.Background()); err != nil {
		t.Errorf("connection not released after cycle: %v", err)
	}
}

func TestPoller_SkipsBadResponses(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	seedRule(t, postgres.NewRuleRepository(db, postgres.DialectSQLite), "temperature", 0, rule.ConditionGreaterThan)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "inverter offline", http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	sources := []Source{
		{Name: "Kostal", URL: failing.URL},
		{Name: "Fronius", URL: telemetryServer(t, `not json`).URL},
		{Name: "Extra", URL: telemetryServer(t, `{"realtime_data": {"temperature": {"value": "n/a"}}}`).URL},
	}

	dispatcher := testutil.NewRecordingDispatcher()
	poller := NewPoller(db, postgres.DialectSQLite, sources, dispatcher, testPollerConfig(), testutil.NewTestLogger())

	poller.RunCycle(context.Background())

	if n := len(dispatcher.Calls()); n != 0 {
		t.Errorf("Dispatch() called %d times, want 0", n)
	}
}

func TestPoller_MatchesAcrossUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := postgres.NewRuleRepository(db, postgres.DialectSQLite)
	seedRule(t, repo, "temperature", 30, rule.ConditionGreaterThan)
	other := &rule.Rule{UserID: "user2", MetricType: "temperature", ThresholdValue: 40, Condition: rule.ConditionGreaterThan, DeliveryChannel: rule.ChannelSMS}
	repo.Create(context.Background(), other)
	inactive := seedRule(t, repo, "temperature", 10, rule.ConditionGreaterThan)
	repo.Deactivate(context.Background(), inactive.ID)

	sources := []Source{{Name: "Kostal", URL: telemetryServer(t, `{"realtime_data": {"temperature": {"value": 45.5}}}`).URL}}

	dispatcher := testutil.NewRecordingDispatcher()
	NewPoller(db, postgres.DialectSQLite, sources, dispatcher, testPollerConfig(), testutil.NewTestLogger()).RunCycle(context.Background())

	if n := len(dispatcher.Calls()); n != 2 {
		t.Errorf("Dispatch() called %d times, want 2 active rules matched by metric", n)
	}
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	seedRule(t, postgres.NewRuleRepository(db, postgres.DialectSQLite), "battery_capacity", 80.0, rule.ConditionLessThan)
	sources := []Source{{Name: "Fronius", URL: telemetryServer(t, `{"realtime_data": {"battery_capacity": {"value": 70}}}`).URL}}

	dispatcher := testutil.NewRecordingDispatcher()
	dispatcher.Notify = make(chan testutil.DispatchCall, 1)
	poller := NewPoller(db, postgres.DialectSQLite, sources, dispatcher, testPollerConfig(), testutil.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(stopped)
	}()

	select {
	case <-dispatcher.Notify:
	case <-time.After(5 * time.Second):
		t.Fatal("first cycle never dispatched")
	}

	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancellation during the wait")
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []Reading
	}{
		{
			name: "numbers",
			body: `{"realtime_data": {"battery_capacity": {"value": 70}, "temperature": {"value": 35.5}}}`,
			want: []Reading{{"battery_capacity", 70}, {"temperature", 35.5}},
		},
		{
			name: "numeric string",
			body: `{"realtime_data": {"grid_power": {"value": " 1.5e3 "}}}`,
			want: []Reading{{"grid_power", 1500}},
		},
		{
			name: "skips unusable values",
			body: `{"realtime_data": {"a": {"value": null}, "b": {"value": true}, "c": {"value": {}}, "d": {}, "e": 5, "f": {"value": "abc"}, "g": {"value": -2}}}`,
			want: []Reading{{"g", -2}},
		},
		{
			name: "missing realtime_data",
			body: `{"status": "ok"}`,
			want: nil,
		},
		{
			name: "realtime_data not an object",
			body: `{"realtime_data": [1, 2]}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := json.NewDecoder(strings.NewReader(tt.body))
			dec.UseNumber()
			var doc map[string]interface{}
			if err := dec.Decode(&doc); err != nil {
				t.Fatalf("decode: %v", err)
			}

			got := Extract(doc)
			if len(got) != len(tt.want) {
				t.Fatalf("Extract() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i].Metric != tt.want[i].Metric || math.Abs(got[i].Value-tt.want[i].Value) > 1e-9 {
					t.Errorf("Extract()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDefaultSources(t *testing.T) {
	sources := DefaultSources(config.PollerConfig{
		KostalURL:  "http://kostal-ms:8082/kostal/realtimedata",
		FroniusURL: "http://fronius-ms:8081/fronius/realtimedata",
	})
	if len(sources) != 2 || sources[0].Name != "Kostal" || sources[1].Name != "Fronius" {
		t.Errorf("DefaultSources() = %+v", sources)
	}
}

// gateDispatcher blocks every Dispatch until release is closed
type gateDispatcher struct {
	entered chan struct{}
	release chan struct{}
}

func (d *gateDispatcher) Dispatch(ctx context.Context, r rule.Rule, actualValue float64) {
	d.entered <- struct{}{}
	<-d.release
}

func TestPoller_DispatchDoesNotHoldConnection(t *testing.T) {
	// NewTestDB allows a single open connection, like the sqlite driver setup
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := postgres.NewRuleRepository(db, postgres.DialectSQLite)
	seedRule(t, repo, "battery_capacity", 80.0, rule.ConditionLessThan)

	sources := []Source{{Name: "Fronius", URL: telemetryServer(t, `{"realtime_data": {"battery_capacity": {"value": 70}}}`).URL}}
	dispatcher := &gateDispatcher{entered: make(chan struct{}, 1), release: make(chan struct{})}
	poller := NewPoller(db, postgres.DialectSQLite, sources, dispatcher, testPollerConfig(), testutil.NewTestLogger())

	cycleDone := make(chan struct{})
	go func() {
		poller.RunCycle(context.Background())
		close(cycleDone)
	}()

	select {
	case <-dispatcher.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispatch() never ran")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	rules, err := repo.ListActiveByUserAndMetric(ctx, "user1", "battery_capacity")
	cancel()

	close(dispatcher.release)
	<-cycleDone

	if err != nil {
		t.Fatalf("ListActiveByUserAndMetric() during dispatch error = %v", err)
	}
	if len(rules) != 1 {
		t.Errorf("ListActiveByUserAndMetric() returned %d rules, want 1", len(rules))
	}
}
