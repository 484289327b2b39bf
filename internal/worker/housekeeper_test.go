package worker

import (
	"context"
	"testing"

	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
	"github.com/pratik-mahalle/voltcast-alerts/internal/testutil"
)

type staticStats Stats

func (s staticStats) Stats() Stats { return Stats(s) }

func TestHousekeeper_Start(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{name: "descriptor", schedule: "@every 1m", wantErr: false},
		{name: "five field cron", schedule: "*/5 * * * *", wantErr: false},
		{name: "garbage", schedule: "every minute", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockRuleRepository()
			h := NewHousekeeper(repo, staticStats{}, tt.schedule, testutil.NewTestLogger())

			err := h.Start(context.Background())
			defer h.Stop()

			if (err != nil) != tt.wantErr {
				t.Errorf("Start() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHousekeeper_RunOnceToleratesStoreError(t *testing.T) {
	repo := testutil.NewMockRuleRepository()
	repo.Create(context.Background(), &rule.Rule{UserID: "user1", MetricType: "temperature"})
	repo.ListError = context.DeadlineExceeded

	h := NewHousekeeper(repo, staticStats{Dispatched: 3}, "@every 1m", testutil.NewTestLogger())
	h.RunOnce(context.Background())
}
