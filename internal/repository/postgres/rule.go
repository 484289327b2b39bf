package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/errors"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/metrics"
)

const ruleColumns = `id, user_id, metric_type, threshold_value, condition, delivery_channel, is_active, created_at`

type RuleRepository struct {
	db      Querier
	dialect Dialect
}

// NewRuleRepository returns a rule store over q. q may be a pooled *sql.DB or
// a single *sql.Conn held for the duration of a poll cycle.
func NewRuleRepository(q Querier, dialect Dialect) rule.Repository {
	return &RuleRepository{db: q, dialect: dialect}
}

func (r *RuleRepository) Create(ctx context.Context, ru *rule.Rule) (int64, error) {
	defer observe("insert", time.Now())

	now := time.Now().UTC()
	query := r.dialect.Rebind(`
		INSERT INTO alert_rules (user_id, metric_type, threshold_value, condition, delivery_channel, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		ru.UserID, ru.MetricType, ru.ThresholdValue, string(ru.Condition), string(ru.DeliveryChannel), true, now,
	).Scan(&id)
	if err != nil {
		return 0, errors.DatabaseError("Failed to create rule", err)
	}

	ru.ID = id
	ru.IsActive = true
	ru.CreatedAt = now
	return id, nil
}

func (r *RuleRepository) GetByID(ctx context.Context, id int64) (*rule.Rule, error) {
	defer observe("select", time.Now())

	query := r.dialect.Rebind(`SELECT ` + ruleColumns + ` FROM alert_rules WHERE id = ?`)

	ru, err := scanRule(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Rule")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get rule", err)
	}
	return ru, nil
}

func (r *RuleRepository) ListActiveByUser(ctx context.Context, userID string) ([]*rule.Rule, error) {
	return r.list(ctx, `user_id = ? AND is_active = ?`, userID, true)
}

func (r *RuleRepository) ListActiveByUserAndMetric(ctx context.Context, userID, metricType string) ([]*rule.Rule, error) {
	return r.list(ctx, `user_id = ? AND metric_type = ? AND is_active = ?`, userID, metricType, true)
}

func (r *RuleRepository) ListActiveByMetric(ctx context.Context, metricType string) ([]*rule.Rule, error) {
	return r.list(ctx, `metric_type = ? AND is_active = ?`, metricType, true)
}

func (r *RuleRepository) Deactivate(ctx context.Context, id int64) error {
	defer observe("update", time.Now())

	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(`UPDATE alert_rules SET is_active = ? WHERE id = ?`), false, id)
	if err != nil {
		return errors.DatabaseError("Failed to deactivate rule", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Rule")
	}

	return nil
}

func (r *RuleRepository) CountActive(ctx context.Context) (int64, error) {
	defer observe("count", time.Now())

	var count int64
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT COUNT(*) FROM alert_rules WHERE is_active = ?`), true).Scan(&count)
	if err != nil {
		return 0, errors.DatabaseError("Failed to count active rules", err)
	}
	return count, nil
}

func (r *RuleRepository) list(ctx context.Context, where string, args ...interface{}) ([]*rule.Rule, error) {
	defer observe("select", time.Now())

	query := r.dialect.Rebind(fmt.Sprintf(`SELECT %s FROM alert_rules WHERE %s ORDER BY id`, ruleColumns, where))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list rules", err)
	}
	defer rows.Close()

	rules := make([]*rule.Rule, 0)
	for rows.Next() {
		ru, err := scanRule(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan rule", err)
		}
		rules = append(rules, ru)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate rules", err)
	}

	return rules, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanRule parses the enum columns so a bad stored value never reaches the domain
func scanRule(s rowScanner) (*rule.Rule, error) {
	var (
		ru        rule.Rule
		condition string
		channel   string
		createdAt timestamp
	)
	if err := s.Scan(&ru.ID, &ru.UserID, &ru.MetricType, &ru.ThresholdValue, &condition, &channel, &ru.IsActive, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if ru.Condition, err = rule.ParseCondition(condition); err != nil {
		return nil, fmt.Errorf("rule %d: %w", ru.ID, err)
	}
	if ru.DeliveryChannel, err = rule.ParseChannel(channel); err != nil {
		return nil, fmt.Errorf("rule %d: %w", ru.ID, err)
	}
	ru.CreatedAt = createdAt.Time

	return &ru, nil
}

func observe(operation string, start time.Time) {
	metrics.RecordDBQuery(operation, "alert_rules", time.Since(start))
}
