package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/pratik-mahalle/voltcast-alerts/internal/config"
	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/notification"
	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/logger"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/metrics"
)

var alertEmailTemplate = template.Must(template.New("alert").Parse(`<h2>VoltCast Alert</h2>
<p>Your rule for <strong>{{.MetricType}}</strong> was triggered.</p>
<p>Current value: <strong>{{.Value}}</strong></p>
<p>Rule: {{.MetricType}} {{.Condition}} {{.Threshold}}</p>
<p>Rule ID: {{.RuleID}}</p>`))

type alertEmailData struct {
	RuleID     int64
	MetricType string
	Value      string
	Condition  rule.Condition
	Threshold  string
}

// DeliveryService implements rule.Dispatcher
type DeliveryService struct {
	transport         notification.Transport
	from              string
	fallbackRecipient string
	logger            *logger.Logger
}

// NewDeliveryService creates a dispatcher. The transport is ignored when
// cfg carries no credential, and EMAIL rules are then only logged.
func NewDeliveryService(cfg config.EmailConfig, transport notification.Transport, log *logger.Logger) *DeliveryService {
	if !cfg.Configured() {
		transport = nil
	}
	return &DeliveryService{
		transport:         transport,
		from:              cfg.From,
		fallbackRecipient: cfg.FallbackRecipient,
		logger:            log.WithComponent("delivery"),
	}
}

// Dispatch logs the violation and delivers it on the rule's channel.
// Delivery failures are logged and never returned.
func (s *DeliveryService) Dispatch(ctx context.Context, r rule.Rule, actualValue float64) {
	s.logger.WithFields(map[string]interface{}{
		"rule_id":         r.ID,
		"user_id":         r.UserID,
		"metric_type":     r.MetricType,
		"actual_value":    actualValue,
		"condition":       r.Condition,
		"threshold_value": r.ThresholdValue,
		"channel":         r.DeliveryChannel,
	}).Infof("[ALERT TRIGGERED for User %s]: %s (%s) violated rule (Condition: %s %s) via Channel: %s",
		r.UserID, r.MetricType, formatValue(actualValue), r.Condition, formatValue(r.ThresholdValue), r.DeliveryChannel)

	switch r.DeliveryChannel {
	case rule.ChannelEmail:
		s.sendEmail(ctx, r, actualValue)
	default:
		metrics.RecordDispatch(string(r.DeliveryChannel), notification.OutcomeLogged)
	}
}

func (s *DeliveryService) sendEmail(ctx context.Context, r rule.Rule, actualValue float64) {
	channel := string(rule.ChannelEmail)

	if s.transport == nil {
		s.logger.With("rule_id", r.ID).Warn("Email transport not configured, skipping email delivery")
		metrics.RecordDispatch(channel, notification.OutcomeSkipped)
		return
	}

	msg, err := s.buildMessage(r, actualValue)
	if err != nil {
		s.logger.WithError(err).Error("Failed to render alert email")
		metrics.RecordDispatch(channel, notification.OutcomeFailed)
		return
	}

	if err := s.transport.Send(ctx, msg); err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"rule_id": r.ID,
			"to":      msg.To,
		}).Error("Failed to send alert email")
		metrics.RecordDispatch(channel, notification.OutcomeFailed)
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"rule_id": r.ID,
		"to":      msg.To,
	}).Info("Alert email sent")
	metrics.RecordDispatch(channel, notification.OutcomeSent)
}

func (s *DeliveryService) buildMessage(r rule.Rule, actualValue float64) (notification.Message, error) {
	var body bytes.Buffer
	err := alertEmailTemplate.Execute(&body, alertEmailData{
		RuleID:     r.ID,
		MetricType: r.MetricType,
		Value:      formatValue(actualValue),
		Condition:  r.Condition,
		Threshold:  formatValue(r.ThresholdValue),
	})
	if err != nil {
		return notification.Message{}, err
	}

	return notification.Message{
		From:    s.from,
		To:      s.recipientFor(r.UserID),
		Subject: fmt.Sprintf("VoltCast Alert: %s threshold violated", r.MetricType),
		HTML:    body.String(),
	}, nil
}

// recipientFor treats user ids that look like addresses as the recipient
func (s *DeliveryService) recipientFor(userID string) string {
	if strings.Contains(userID, "@") {
		return userID
	}
	return s.fallbackRecipient
}

// formatValue renders floats the way alert messages have always shown them:
// integral values keep one decimal (35.0), others use the shortest form.
func formatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case v == math.Trunc(v) && math.Abs(v) < 1e16:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
