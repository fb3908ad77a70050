package ports

import (
	"context"

	"github.com/aretw0/voyant/pkg/domain"
)

// HistoryStore defines the interface for persisting conversation threads.
// This allows a finished round to be resumed later, possibly from another
// process instance.
type HistoryStore interface {
	// Save persists the thread under its ID.
	Save(ctx context.Context, thread *domain.Thread) error

	// Load retrieves a thread by ID.
	// Returns domain.ErrThreadNotFound if the thread does not exist.
	Load(ctx context.Context, threadID string) (*domain.Thread, error)

	// Delete removes a thread by ID.
	Delete(ctx context.Context, threadID string) error

	// List returns the IDs of all stored threads.
	List(ctx context.Context) ([]string, error)
}

// FeedbackStore records caller feedback about finished conversations.
type FeedbackStore interface {
	Record(ctx context.Context, fb domain.Feedback) error
}
