package client

import (
	"context"
	"net/http"
	"time"
)

// Ingest pushes one measurement. A zero Timestamp is sent as now.
func (c *Client) Ingest(ctx context.Context, m Measurement) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	var resp MessageResponse
	return c.doRequest(ctx, http.MethodPost, "/api/v1/data/ingest", m, &resp)
}
