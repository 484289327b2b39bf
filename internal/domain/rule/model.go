package rule

import (
	"fmt"
	"time"
)

// Rule is a threshold condition on one metric, owned by a user.
// Only IsActive ever changes after creation.
type Rule struct {
	ID              int64           `json:"id"`
	UserID          string          `json:"user_id"`
	MetricType      string          `json:"metric_type"`
	ThresholdValue  float64         `json:"threshold_value"`
	Condition       Condition       `json:"condition"`
	DeliveryChannel DeliveryChannel `json:"delivery_channel"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ViolatedBy reports whether value breaks the rule
func (r *Rule) ViolatedBy(value float64) bool {
	return Violates(value, r.ThresholdValue, r.Condition)
}

// Condition is the comparison applied between a measured value and the threshold
type Condition string

const (
	ConditionGreaterThan Condition = "GREATER_THAN"
	ConditionLessThan    Condition = "LESS_THAN"
	ConditionEquals      Condition = "EQUALS"
)

// Conditions lists every accepted condition
var Conditions = []Condition{ConditionGreaterThan, ConditionLessThan, ConditionEquals}

// ParseCondition converts s to a Condition, rejecting unknown tokens
func ParseCondition(s string) (Condition, error) {
	c := Condition(s)
	switch c {
	case ConditionGreaterThan, ConditionLessThan, ConditionEquals:
		return c, nil
	}
	return "", fmt.Errorf("invalid condition %q", s)
}

// DeliveryChannel is where a violation notification goes
type DeliveryChannel string

const (
	ChannelEmail     DeliveryChannel = "EMAIL"
	ChannelDashboard DeliveryChannel = "DASHBOARD"
	ChannelSMS       DeliveryChannel = "SMS"
)

// Channels lists every accepted delivery channel
var Channels = []DeliveryChannel{ChannelEmail, ChannelDashboard, ChannelSMS}

// ParseChannel converts s to a DeliveryChannel, rejecting unknown tokens
func ParseChannel(s string) (DeliveryChannel, error) {
	ch := DeliveryChannel(s)
	switch ch {
	case ChannelEmail, ChannelDashboard, ChannelSMS:
		return ch, nil
	}
	return "", fmt.Errorf("invalid delivery channel %q", s)
}

// Measurement is a single reading submitted through ingestion
type Measurement struct {
	UserID     string
	MetricType string
	Value      float64
	Timestamp  time.Time
}

// Violation pairs a matched rule with the value that broke it. It is never stored.
type Violation struct {
	Rule        Rule
	ActualValue float64
}
