package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/notification"
	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/errors"
)

// MockRuleRepository is a mock implementation of rule.Repository
type MockRuleRepository struct {
	mu        sync.Mutex
	Rules     map[int64]*rule.Rule
	NextID    int64
	ListError error
}

func NewMockRuleRepository() *MockRuleRepository {
	return &MockRuleRepository{
		Rules:  make(map[int64]*rule.Rule),
		NextID: 1,
	}
}

func (m *MockRuleRepository) Create(ctx context.Context, r *rule.Rule) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.NextID
	m.NextID++
	r.ID = id
	r.IsActive = true
	stored := *r
	m.Rules[id] = &stored
	return id, nil
}

func (m *MockRuleRepository) GetByID(ctx context.Context, id int64) (*rule.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.Rules[id]
	if !ok {
		return nil, errors.NotFound("Rule")
	}
	cp := *r
	return &cp, nil
}

func (m *MockRuleRepository) ListActiveByUser(ctx context.Context, userID string) ([]*rule.Rule, error) {
	return m.filter(func(r *rule.Rule) bool { return r.UserID == userID })
}

func (m *MockRuleRepository) ListActiveByUserAndMetric(ctx context.Context, userID, metricType string) ([]*rule.Rule, error) {
	return m.filter(func(r *rule.Rule) bool { return r.UserID == userID && r.MetricType == metricType })
}

func (m *MockRuleRepository) ListActiveByMetric(ctx context.Context, metricType string) ([]*rule.Rule, error) {
	return m.filter(func(r *rule.Rule) bool { return r.MetricType == metricType })
}

func (m *MockRuleRepository) Deactivate(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.Rules[id]
	if !ok {
		return errors.NotFound("Rule")
	}
	r.IsActive = false
	return nil
}

func (m *MockRuleRepository) CountActive(ctx context.Context) (int64, error) {
	rules, err := m.filter(func(r *rule.Rule) bool { return true })
	return int64(len(rules)), err
}

func (m *MockRuleRepository) filter(keep func(r *rule.Rule) bool) ([]*rule.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListError != nil {
		return nil, m.ListError
	}

	result := make([]*rule.Rule, 0)
	for _, r := range m.Rules {
		if r.IsActive && keep(r) {
			cp := *r
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// DispatchCall records one Dispatch invocation
type DispatchCall struct {
	Rule  rule.Rule
	Value float64
}

// RecordingDispatcher is a rule.Dispatcher that remembers every call
type RecordingDispatcher struct {
	mu    sync.Mutex
	calls []DispatchCall
	// Notify, when set, receives each call after it is recorded
	Notify chan DispatchCall
}

func NewRecordingDispatcher() *RecordingDispatcher {
	return &RecordingDispatcher{}
}

func (d *RecordingDispatcher) Dispatch(ctx context.Context, r rule.Rule, actualValue float64) {
	call := DispatchCall{Rule: r, Value: actualValue}

	d.mu.Lock()
	d.calls = append(d.calls, call)
	d.mu.Unlock()

	if d.Notify != nil {
		d.Notify <- call
	}
}

// Calls returns a copy of the recorded calls
func (d *RecordingDispatcher) Calls() []DispatchCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DispatchCall(nil), d.calls...)
}

// RecordingTransport is a notification.Transport that stores messages and
// returns Err from every Send
type RecordingTransport struct {
	mu       sync.Mutex
	messages []notification.Message
	Err      error
}

func (t *RecordingTransport) Send(ctx context.Context, msg notification.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
	return t.Err
}

// Messages returns a copy of the sent messages
func (t *RecordingTransport) Messages() []notification.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]notification.Message(nil), t.messages...)
}
