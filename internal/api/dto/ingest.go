package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
)

// IngestRequest represents one pushed measurement
type IngestRequest struct {
	UserID     string     `json:"user_id" validate:"required,notblank" example:"user1"`
	MetricType string     `json:"metric_type" validate:"required,notblank" example:"temperature"`
	Value      *float64   `json:"value" validate:"required" example:"35"`
	Timestamp  *Timestamp `json:"timestamp" validate:"required" swaggertype:"string" example:"2023-10-27T10:00:00"`
}

// ToMeasurement converts the request into a domain measurement
func (r IngestRequest) ToMeasurement() rule.Measurement {
	m := rule.Measurement{
		UserID:     r.UserID,
		MetricType: r.MetricType,
	}
	if r.Timestamp != nil {
		m.Timestamp = r.Timestamp.Time
	}
	if r.Value != nil {
		m.Value = *r.Value
	}
	return m
}

// timestampLayouts are tried in order. Values without a zone are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp accepts ISO 8601 strings or unix seconds
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] != '"' {
		secs, err := strconv.ParseFloat(string(data), 64)
		if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
			return fmt.Errorf("invalid timestamp %s", data)
		}
		whole, frac := math.Modf(secs)
		t.Time = time.Unix(int64(whole), int64(frac*1e9)).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
