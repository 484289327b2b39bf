package auth

import (
	"testing"
	"time"
)

func TestMintAndParse(t *testing.T) {
	tests := []struct {
		name        string
		mintSecret  string
		parseSecret string
		ttl         time.Duration
		wantErr     bool
	}{
		{name: "valid token", mintSecret: "s3cret", parseSecret: "s3cret", ttl: time.Hour, wantErr: false},
		{name: "wrong secret", mintSecret: "s3cret", parseSecret: "other", ttl: time.Hour, wantErr: true},
		{name: "expired", mintSecret: "s3cret", parseSecret: "s3cret", ttl: -time.Minute, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := MintToken("ops", tt.mintSecret, tt.ttl)
			if err != nil {
				t.Fatalf("MintToken() error = %v", err)
			}

			claims, err := ParseClaims(token, tt.parseSecret)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClaims() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && claims.Subject != "ops" {
				t.Errorf("Subject = %q, want ops", claims.Subject)
			}
		})
	}
}

func TestMintToken_EmptySecret(t *testing.T) {
	if _, err := MintToken("ops", "", time.Hour); err == nil {
		t.Error("MintToken() with empty secret error = nil")
	}
}
