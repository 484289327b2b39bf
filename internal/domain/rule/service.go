package rule

import "context"

// CreateInput carries the unvalidated fields of a rule creation request
type CreateInput struct {
	UserID          string
	MetricType      string
	ThresholdValue  float64
	Condition       string
	DeliveryChannel string
}

// Service defines the interface for rule business logic
type Service interface {
	// Create validates input and stores a new active rule
	Create(ctx context.Context, in CreateInput) (*Rule, error)

	// ListForUser returns a user's active rules
	ListForUser(ctx context.Context, userID string) ([]*Rule, error)

	// Deactivate soft-deletes a rule. Repeating it on an inactive rule succeeds.
	Deactivate(ctx context.Context, id int64) error
}

// Dispatcher delivers a violation. Implementations never fail their caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, r Rule, actualValue float64)
}
