package domain

import "time"

// Phase defines the current mode of the conversation loop.
type Phase string

const (
	PhaseAwaitingDecision Phase = "awaiting_decision" // Next step is an oracle call
	PhaseExecutingTools   Phase = "executing_tools"   // Dispatching the current round's calls
	PhaseDone             Phase = "done"              // Final answer produced
)

// Thread is one independent conversation with its own history and identifier.
type Thread struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	Phase     Phase     `json:"phase"`
	Rounds    int       `json:"rounds"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewThread creates an empty thread in the decision phase.
func NewThread(id string) *Thread {
	now := time.Now().UTC()
	return &Thread{
		ID:        id,
		Messages:  make([]Message, 0, 8),
		Phase:     PhaseAwaitingDecision,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds turns to history in order.
func (t *Thread) Append(msgs ...Message) {
	t.Messages = append(t.Messages, msgs...)
	t.UpdatedAt = time.Now().UTC()
}

// LastAssistantText returns the content of the most recent assistant turn,
// or "" if none exists yet.
func (t *Thread) LastAssistantText() string {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == RoleAssistant && t.Messages[i].Content != "" {
			return t.Messages[i].Content
		}
	}
	return ""
}

// Clone returns a deep copy so stores and callers cannot alias live history.
func (t *Thread) Clone() *Thread {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Messages = make([]Message, len(t.Messages))
	copy(cp.Messages, t.Messages)
	for i, m := range t.Messages {
		if len(m.ToolCalls) == 0 {
			continue
		}
		calls := make([]ToolCall, len(m.ToolCalls))
		for j, call := range m.ToolCalls {
			calls[j] = call
			if call.Args != nil {
				args := make(map[string]any, len(call.Args))
				for k, v := range call.Args {
					args[k] = v
				}
				calls[j].Args = args
			}
		}
		cp.Messages[i].ToolCalls = calls
	}
	return &cp
}
