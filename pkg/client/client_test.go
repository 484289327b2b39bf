package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", Token: "tok"})
}

func TestRuleService_Create(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/alert/api/v1/rules" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		var req CreateRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Rule{
			ID:              1,
			UserID:          req.UserID,
			MetricType:      req.MetricType,
			ThresholdValue:  req.ThresholdValue,
			Condition:       req.Condition,
			DeliveryChannel: req.DeliveryChannel,
			IsActive:        true,
		})
	})

	rule, err := c.Rules().Create(context.Background(), CreateRuleRequest{
		UserID:          "a@b.com",
		MetricType:      "battery_capacity",
		ThresholdValue:  80,
		Condition:       ConditionLessThan,
		DeliveryChannel: ChannelEmail,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rule.ID != 1 || !rule.IsActive || rule.Condition != ConditionLessThan {
		t.Errorf("unexpected rule %+v", rule)
	}
}

func TestRuleService_ListForUserEscapesPath(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/alert/api/v1/rules/user%201" {
			t.Errorf("path = %s", r.URL.EscapedPath())
		}
		w.Write([]byte(`[{"id":3,"user_id":"user 1","metric_type":"pv_power","is_active":true}]`))
	})

	rules, err := c.Rules().ListForUser(context.Background(), "user 1")
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(rules) != 1 || rules[0].ID != 3 {
		t.Errorf("unexpected rules %+v", rules)
	}
}

func TestAPIError_Envelope(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"Rule not found"}}`))
	})

	err := c.Rules().Deactivate(context.Background(), 42)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if !apiErr.IsNotFound() || apiErr.Code != "NOT_FOUND" || apiErr.Message != "Rule not found" {
		t.Errorf("unexpected error %+v", apiErr)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound(err) = false")
	}
}

func TestAPIError_PlainBody(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
		check   func(*APIError) bool
	}{
		{"rate limited", http.StatusTooManyRequests, "slow down", "slow down", (*APIError).IsRateLimited},
		{"server error empty body", http.StatusBadGateway, "", "Bad Gateway", (*APIError).IsServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := newAPIError(tt.status, []byte(tt.body))
			if apiErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
			if !tt.check(apiErr) {
				t.Errorf("status predicate false for %d", tt.status)
			}
		})
	}
}

func TestIngest_DefaultsTimestamp(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/data/ingest" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var m Measurement
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if m.Timestamp.IsZero() {
			t.Error("timestamp was not populated")
		}
		w.Write([]byte(`{"message":"Data processed"}`))
	})

	if err := c.Ingest(context.Background(), Measurement{UserID: "u", MetricType: "pv_power", Value: 1}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
}

func TestHealth_UnwrapsData(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
			w.Write([]byte(`{"success":true,"data":{"status":"ok"}}`))
		case "/readyz":
			w.Write([]byte(`{"success":true,"data":{"status":"ready","database":"connected"}}`))
		default:
			http.NotFound(w, r)
		}
	})

	health, err := c.Health(context.Background())
	if err != nil || health.Status != "ok" {
		t.Fatalf("Health = %+v, %v", health, err)
	}
	ready, err := c.Ready(context.Background())
	if err != nil || ready.Database != "connected" {
		t.Fatalf("Ready = %+v, %v", ready, err)
	}
}
