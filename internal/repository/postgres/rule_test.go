package postgres

import (
	"context"
	"testing"

	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/errors"
	"github.com/pratik-mahalle/voltcast-alerts/internal/testutil"
)

func newTestRule(userID, metric string, threshold float64, c rule.Condition) *rule.Rule {
	return &rule.Rule{
		UserID:          userID,
		MetricType:      metric,
		ThresholdValue:  threshold,
		Condition:       c,
		DeliveryChannel: rule.ChannelEmail,
	}
}

func TestRuleRepository_Create(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewRuleRepository(db, DialectSQLite)

	tests := []struct {
		name string
		rule *rule.Rule
	}{
		{
			name: "create email rule",
			rule: newTestRule("user1", "temperature", 30.0, rule.ConditionGreaterThan),
		},
		{
			name: "create dashboard rule",
			rule: &rule.Rule{
				UserID:          "ops@voltcast.dev",
				MetricType:      "battery_capacity",
				ThresholdValue:  80,
				Condition:       rule.ConditionLessThan,
				DeliveryChannel: rule.ChannelDashboard,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			id, err := repo.Create(ctx, tt.rule)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if id == 0 || tt.rule.ID != id {
				t.Errorf("Create() id = %d, rule.ID = %d", id, tt.rule.ID)
			}
			if !tt.rule.IsActive {
				t.Error("Create() did not mark rule active")
			}

			stored, err := repo.GetByID(ctx, id)
			if err != nil {
				t.Fatalf("GetByID() error = %v", err)
			}
			if stored.UserID != tt.rule.UserID || stored.MetricType != tt.rule.MetricType ||
				stored.ThresholdValue != tt.rule.ThresholdValue || stored.Condition != tt.rule.Condition ||
				stored.DeliveryChannel != tt.rule.DeliveryChannel || !stored.IsActive {
				t.Errorf("GetByID() = %+v, want %+v", stored, tt.rule)
			}
			if stored.CreatedAt.IsZero() {
				t.Error("GetByID() returned zero created_at")
			}
		})
	}
}

func TestRuleRepository_ListActiveByUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewRuleRepository(db, DialectSQLite)
	ctx := context.Background()

	first := newTestRule("user1", "temperature", 30, rule.ConditionGreaterThan)
	repo.Create(ctx, first)
	repo.Create(ctx, newTestRule("user1", "battery_capacity", 20, rule.ConditionLessThan))
	repo.Create(ctx, newTestRule("user2", "temperature", 50, rule.ConditionGreaterThan))

	tests := []struct {
		name      string
		userID    string
		wantCount int
	}{
		{name: "user with two rules", userID: "user1", wantCount: 2},
		{name: "user with one rule", userID: "user2", wantCount: 1},
		{name: "unknown user", userID: "nobody", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := repo.ListActiveByUser(ctx, tt.userID)
			if err != nil {
				t.Fatalf("ListActiveByUser() error = %v", err)
			}
			if rules == nil {
				t.Fatal("ListActiveByUser() returned nil slice")
			}
			if len(rules) != tt.wantCount {
				t.Errorf("ListActiveByUser() count = %d, want %d", len(rules), tt.wantCount)
			}
		})
	}

	rules, _ := repo.ListActiveByUser(ctx, "user1")
	if rules[0].ID != first.ID {
		t.Errorf("ListActiveByUser() not ordered by id: first = %d, want %d", rules[0].ID, first.ID)
	}
}

func TestRuleRepository_MetricLookups(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewRuleRepository(db, DialectSQLite)
	ctx := context.Background()

	repo.Create(ctx, newTestRule("user1", "temperature", 30, rule.ConditionGreaterThan))
	repo.Create(ctx, newTestRule("user2", "temperature", 40, rule.ConditionGreaterThan))
	repo.Create(ctx, newTestRule("user1", "battery_capacity", 80, rule.ConditionLessThan))

	byUserAndMetric, err := repo.ListActiveByUserAndMetric(ctx, "user1", "temperature")
	if err != nil {
		t.Fatalf("ListActiveByUserAndMetric() error = %v", err)
	}
	if len(byUserAndMetric) != 1 || byUserAndMetric[0].UserID != "user1" {
		t.Errorf("ListActiveByUserAndMetric() = %+v, want the single user1 temperature rule", byUserAndMetric)
	}

	byMetric, err := repo.ListActiveByMetric(ctx, "temperature")
	if err != nil {
		t.Fatalf("ListActiveByMetric() error = %v", err)
	}
	if len(byMetric) != 2 {
		t.Errorf("ListActiveByMetric() count = %d, want 2 across users", len(byMetric))
	}

	count, err := repo.CountActive(ctx)
	if err != nil {
		t.Fatalf("CountActive() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountActive() = %d, want 3", count)
	}
}

func TestRuleRepository_Deactivate(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewRuleRepository(db, DialectSQLite)
	ctx := context.Background()

	r := newTestRule("user1", "battery_capacity", 80, rule.ConditionLessThan)
	id, _ := repo.Create(ctx, r)

	if err := repo.Deactivate(ctx, id); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}

	// repeating is a no-op success
	if err := repo.Deactivate(ctx, id); err != nil {
		t.Errorf("second Deactivate() error = %v, want nil", err)
	}

	stored, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.IsActive {
		t.Error("rule still active after Deactivate()")
	}

	if rules, _ := repo.ListActiveByUser(ctx, "user1"); len(rules) != 0 {
		t.Errorf("ListActiveByUser() returned %d deactivated rules", len(rules))
	}
	if rules, _ := repo.ListActiveByMetric(ctx, "battery_capacity"); len(rules) != 0 {
		t.Errorf("ListActiveByMetric() returned %d deactivated rules", len(rules))
	}

	err = repo.Deactivate(ctx, 9999)
	if !errors.IsNotFound(err) {
		t.Errorf("Deactivate(unknown) error = %v, want NotFound", err)
	}
}

func TestRuleRepository_ConnScoped(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	ctx := context.Background()
	NewRuleRepository(db, DialectSQLite).Create(ctx, newTestRule("user1", "temperature", 30, rule.ConditionGreaterThan))

	conn, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn() error = %v", err)
	}
	defer conn.Close()

	rules, err := NewRuleRepository(conn, DialectSQLite).ListActiveByMetric(ctx, "temperature")
	if err != nil {
		t.Fatalf("ListActiveByMetric() on conn error = %v", err)
	}
	if len(rules) != 1 {
		t.Errorf("ListActiveByMetric() on conn count = %d, want 1", len(rules))
	}
}
