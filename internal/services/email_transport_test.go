package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pratik-mahalle/voltcast-alerts/internal/config"
	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/notification"
)

func TestEmailTransport_Send(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "accepted", status: http.StatusOK, wantErr: false},
		{name: "created", status: http.StatusCreated, wantErr: false},
		{name: "rejected key", status: http.StatusUnauthorized, wantErr: true},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got notification.Message
			var auth string

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				auth = r.Header.Get("Authorization")
				if r.Method != http.MethodPost {
					t.Errorf("method = %s, want POST", r.Method)
				}
				json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"id":"email_1"}`))
			}))
			defer server.Close()

			transport := NewEmailTransport(config.EmailConfig{
				APIKey:  "re_test",
				APIURL:  server.URL,
				Timeout: 5 * time.Second,
			})

			msg := notification.Message{
				From:    "alerts@voltcast.dev",
				To:      "owner@example.com",
				Subject: "VoltCast Alert",
				HTML:    "<p>hi</p>",
			}
			err := transport.Send(context.Background(), msg)

			if (err != nil) != tt.wantErr {
				t.Errorf("Send() error = %v, wantErr %v", err, tt.wantErr)
			}
			if auth != "Bearer re_test" {
				t.Errorf("Authorization = %q", auth)
			}
			if got != msg {
				t.Errorf("payload = %+v, want %+v", got, msg)
			}
		})
	}
}
