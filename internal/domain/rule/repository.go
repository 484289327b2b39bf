package rule

import "context"

// Repository defines the interface for rule data access.
// List methods return active rules only, ordered by id.
type Repository interface {
	// Create persists a new active rule and returns its id
	Create(ctx context.Context, rule *Rule) (int64, error)

	// GetByID retrieves a rule regardless of its active flag
	GetByID(ctx context.Context, id int64) (*Rule, error)

	// ListActiveByUser retrieves a user's active rules
	ListActiveByUser(ctx context.Context, userID string) ([]*Rule, error)

	// ListActiveByUserAndMetric retrieves a user's active rules for one metric
	ListActiveByUserAndMetric(ctx context.Context, userID, metricType string) ([]*Rule, error)

	// ListActiveByMetric retrieves every active rule for one metric
	ListActiveByMetric(ctx context.Context, metricType string) ([]*Rule, error)

	// Deactivate sets is_active to false
	Deactivate(ctx context.Context, id int64) error

	// CountActive counts active rules
	CountActive(ctx context.Context) (int64, error)
}
