package mocks

import (
	"context"
	"sync"

	"github.com/accountd/accountd/internal/notify"
)

// SentMessage records a single notification delivery attempt
type SentMessage struct {
	To      string
	Subject string
	Body    string
}

// MockNotifier is a mock implementation of Notifier for testing.
// It records messages and can be made to fail.
type MockNotifier struct {
	mu   sync.Mutex
	sent []SentMessage

	// Err, when set, is returned from every Send call
	Err error
}

// Ensure MockNotifier implements Notifier
var _ notify.Notifier = (*MockNotifier)(nil)

// NewMockNotifier creates a new MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Send records the message and returns Err
func (n *MockNotifier) Send(_ context.Context, to, subject, htmlBody string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, SentMessage{To: to, Subject: subject, Body: htmlBody})
	return n.Err
}

// Sent returns a copy of all recorded messages
func (n *MockNotifier) Sent() []SentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]SentMessage, len(n.sent))
	copy(out, n.sent)
	return out
}
