package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/ports"
)

// masked replaces every match before a thread reaches the underlying store.
const masked = "***"

type redactStore struct {
	next     ports.HistoryStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks sensitive data on save.
// Matches inside message content are replaced in place, and tool call
// arguments whose key matches a pattern have their value replaced whole.
// Chain it outside the encryption middleware so masking sees plaintext.
func NewPIIMiddleware(patternStrings []string) Middleware {
	compiled := make([]*regexp.Regexp, 0, len(patternStrings))
	for _, p := range patternStrings {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return func(next ports.HistoryStore) ports.HistoryStore {
		return &redactStore{next: next, patterns: compiled}
	}
}

func (r *redactStore) Save(ctx context.Context, thread *domain.Thread) error {
	// Clone first so the live history used by the orchestrator is untouched.
	cloned := thread.Clone()
	for i := range cloned.Messages {
		cloned.Messages[i].Content = r.redactText(cloned.Messages[i].Content)
		for j, call := range cloned.Messages[i].ToolCalls {
			if call.Args == nil {
				continue
			}
			cloned.Messages[i].ToolCalls[j].Args = redactArgs(call.Args, r.patterns)
		}
	}
	return r.next.Save(ctx, cloned)
}

func (r *redactStore) Load(ctx context.Context, threadID string) (*domain.Thread, error) {
	return r.next.Load(ctx, threadID)
}

func (r *redactStore) Delete(ctx context.Context, threadID string) error {
	return r.next.Delete(ctx, threadID)
}

func (r *redactStore) List(ctx context.Context) ([]string, error) {
	return r.next.List(ctx)
}

func (r *redactStore) redactText(s string) string {
	for _, p := range r.patterns {
		s = p.ReplaceAllString(s, masked)
	}
	return s
}

// redactArgs returns a copy of args with the values of matching keys
// replaced whole. Nested maps are copied and redacted recursively; other
// values are carried over as-is.
func redactArgs(args map[string]any, patterns []*regexp.Regexp) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if matchesAny(k, patterns) {
			out[k] = masked
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			out[k] = redactArgs(sub, patterns)
			continue
		}
		out[k] = v
	}
	return out
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
