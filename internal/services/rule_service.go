package services

import (
	"context"
	"math"
	"strings"

	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/errors"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/logger"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/validator"
)

// RuleService implements rule.Service
type RuleService struct {
	repo   rule.Repository
	logger *logger.Logger
}

// NewRuleService creates a new rule service
func NewRuleService(repo rule.Repository, log *logger.Logger) rule.Service {
	return &RuleService{
		repo:   repo,
		logger: log,
	}
}

// Create validates the input and stores a new active rule
func (s *RuleService) Create(ctx context.Context, in rule.CreateInput) (*rule.Rule, error) {
	var problems []validator.ValidationError

	if strings.TrimSpace(in.UserID) == "" {
		problems = append(problems, validator.ValidationError{Field: "user_id", Tag: "required", Message: "user_id is required"})
	}
	if strings.TrimSpace(in.MetricType) == "" {
		problems = append(problems, validator.ValidationError{Field: "metric_type", Tag: "required", Message: "metric_type is required"})
	}
	if math.IsNaN(in.ThresholdValue) || math.IsInf(in.ThresholdValue, 0) {
		problems = append(problems, validator.ValidationError{Field: "threshold_value", Tag: "finite", Message: "threshold_value must be a finite number"})
	}

	condition, err := rule.ParseCondition(in.Condition)
	if err != nil {
		problems = append(problems, validator.ValidationError{
			Field:   "condition",
			Tag:     "oneof",
			Value:   in.Condition,
			Message: "condition must be one of: GREATER_THAN LESS_THAN EQUALS",
		})
	}

	channel, err := rule.ParseChannel(in.DeliveryChannel)
	if err != nil {
		problems = append(problems, validator.ValidationError{
			Field:   "delivery_channel",
			Tag:     "oneof",
			Value:   in.DeliveryChannel,
			Message: "delivery_channel must be one of: EMAIL DASHBOARD SMS",
		})
	}

	if len(problems) > 0 {
		return nil, errors.ValidationError("Invalid rule", problems)
	}

	r := &rule.Rule{
		UserID:          in.UserID,
		MetricType:      in.MetricType,
		ThresholdValue:  in.ThresholdValue,
		Condition:       condition,
		DeliveryChannel: channel,
	}

	id, err := s.repo.Create(ctx, r)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create rule")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"rule_id":     id,
		"user_id":     r.UserID,
		"metric_type": r.MetricType,
		"condition":   r.Condition,
		"channel":     r.DeliveryChannel,
	}).Info("Rule created")

	return r, nil
}

// ListForUser returns the active rules owned by userID
func (s *RuleService) ListForUser(ctx context.Context, userID string) ([]*rule.Rule, error) {
	return s.repo.ListActiveByUser(ctx, userID)
}

// Deactivate soft-deletes a rule
func (s *RuleService) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if !errors.IsNotFound(err) {
			s.logger.ErrorWithErr(err, "Failed to deactivate rule")
		}
		return err
	}

	s.logger.With("rule_id", id).Info("Rule deactivated")
	return nil
}
