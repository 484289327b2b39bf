package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// RuleService handles rule-related API calls
type RuleService struct {
	client *Client
}

// Create stores a new active rule
func (s *RuleService) Create(ctx context.Context, req CreateRuleRequest) (*Rule, error) {
	var rule Rule
	if err := s.client.doRequest(ctx, http.MethodPost, "/alert/api/v1/rules", req, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// ListForUser retrieves a user's active rules
func (s *RuleService) ListForUser(ctx context.Context, userID string) ([]Rule, error) {
	var rules []Rule
	path := "/alert/api/v1/rules/" + url.PathEscape(userID)
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// Deactivate soft-deletes a rule
func (s *RuleService) Deactivate(ctx context.Context, id int64) error {
	var resp MessageResponse
	return s.client.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/alert/api/v1/rules/%d", id), nil, &resp)
}
