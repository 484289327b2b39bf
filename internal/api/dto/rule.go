package dto

import (
	"time"

	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
)

// CreateRuleRequest represents a rule creation request. ThresholdValue is a
// pointer so an explicit 0 passes the required check.
type CreateRuleRequest struct {
	UserID          string   `json:"user_id" validate:"required,notblank" example:"user1"`
	MetricType      string   `json:"metric_type" validate:"required,notblank" example:"temperature"`
	ThresholdValue  *float64 `json:"threshold_value" validate:"required" example:"30"`
	Condition       string   `json:"condition" validate:"required,oneof=GREATER_THAN LESS_THAN EQUALS" example:"GREATER_THAN"`
	DeliveryChannel string   `json:"delivery_channel" validate:"required,oneof=EMAIL DASHBOARD SMS" example:"EMAIL"`
}

// ToInput converts the request into service input
func (r CreateRuleRequest) ToInput() rule.CreateInput {
	in := rule.CreateInput{
		UserID:          r.UserID,
		MetricType:      r.MetricType,
		Condition:       r.Condition,
		DeliveryChannel: r.DeliveryChannel,
	}
	if r.ThresholdValue != nil {
		in.ThresholdValue = *r.ThresholdValue
	}
	return in
}

// RuleDTO represents a stored rule
type RuleDTO struct {
	ID              int64     `json:"id" example:"1"`
	UserID          string    `json:"user_id" example:"user1"`
	MetricType      string    `json:"metric_type" example:"temperature"`
	ThresholdValue  float64   `json:"threshold_value" example:"30"`
	Condition       string    `json:"condition" example:"GREATER_THAN"`
	DeliveryChannel string    `json:"delivery_channel" example:"EMAIL"`
	IsActive        bool      `json:"is_active" example:"true"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToRuleDTO converts a domain rule
func ToRuleDTO(r *rule.Rule) RuleDTO {
	return RuleDTO{
		ID:              r.ID,
		UserID:          r.UserID,
		MetricType:      r.MetricType,
		ThresholdValue:  r.ThresholdValue,
		Condition:       string(r.Condition),
		DeliveryChannel: string(r.DeliveryChannel),
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
	}
}

// ToRuleDTOs converts a slice, never returning nil
func ToRuleDTOs(rules []*rule.Rule) []RuleDTO {
	out := make([]RuleDTO, len(rules))
	for i, r := range rules {
		out[i] = ToRuleDTO(r)
	}
	return out
}
