package notification

import "context"

// Message is one outbound email
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Transport delivers a message or returns why it could not
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatch outcomes recorded per channel
const (
	OutcomeSent    = "sent"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
	OutcomeLogged  = "logged"
)
