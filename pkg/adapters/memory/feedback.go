package memory

import (
	"context"
	"sync"

	"github.com/aretw0/voyant/pkg/domain"
)

// FeedbackLog implements ports.FeedbackStore in memory. It is the default
// sink when no durable feedback store is configured.
type FeedbackLog struct {
	mu      sync.Mutex
	entries []domain.Feedback
}

// NewFeedbackLog creates an empty in-memory feedback log.
func NewFeedbackLog() *FeedbackLog {
	return &FeedbackLog{}
}

// Record appends one feedback entry.
func (l *FeedbackLog) Record(ctx context.Context, fb domain.Feedback) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fb)
	return nil
}

// Entries returns a copy of everything recorded so far.
func (l *FeedbackLog) Entries() []domain.Feedback {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Feedback(nil), l.entries...)
}
