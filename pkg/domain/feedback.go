package domain

import "time"

// Feedback is a caller's reaction to a finished conversation. Type buckets
// the feedback ("general" when the caller does not say), Rating is an
// optional 1 to 5 score.
type Feedback struct {
	ThreadID  string    `json:"thread_id,omitempty"`
	Type      string    `json:"type"`
	Rating    int       `json:"rating,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
