package client

import "time"

// Rule conditions
const (
	ConditionGreaterThan = "GREATER_THAN"
	ConditionLessThan    = "LESS_THAN"
	ConditionEquals      = "EQUALS"
)

// Delivery channels
const (
	ChannelEmail     = "EMAIL"
	ChannelDashboard = "DASHBOARD"
	ChannelSMS       = "SMS"
)

// Rule represents a threshold alert rule
type Rule struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"user_id"`
	MetricType      string    `json:"metric_type"`
	ThresholdValue  float64   `json:"threshold_value"`
	Condition       string    `json:"condition"`        // GREATER_THAN, LESS_THAN, EQUALS
	DeliveryChannel string    `json:"delivery_channel"` // EMAIL, DASHBOARD, SMS
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateRuleRequest represents a request to create a rule
type CreateRuleRequest struct {
	UserID          string  `json:"user_id"`
	MetricType      string  `json:"metric_type"`
	ThresholdValue  float64 `json:"threshold_value"`
	Condition       string  `json:"condition"`
	DeliveryChannel string  `json:"delivery_channel"`
}

// Measurement is one reading pushed to the ingestion endpoint
type Measurement struct {
	UserID     string    `json:"user_id"`
	MetricType string    `json:"metric_type"`
	Value      float64   `json:"value"`
	Timestamp  time.Time `json:"timestamp"`
}

// MessageResponse is the acknowledgment returned by mutating calls
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}
