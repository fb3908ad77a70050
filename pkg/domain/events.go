package domain

import (
	"context"
	"time"
)

// EventType names the kind of lifecycle event.
type EventType string

const (
	EventDecision   EventType = "decision"
	EventToolCall   EventType = "tool_call"
	EventToolReturn EventType = "tool_return"
	EventRoundEnd   EventType = "round_end"
)

// EventBase carries the fields shared by every event.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	ThreadID  string    `json:"thread_id"`
}

// DecisionEvent represents one completed oracle call.
type DecisionEvent struct {
	EventBase
	Round     int  `json:"round"`
	ToolCalls int  `json:"tool_calls"`
	Final     bool `json:"final"` // true when the oracle produced the answer
}

// ToolEvent represents a tool dispatch or its completion.
type ToolEvent struct {
	EventBase
	ToolName  string        `json:"tool_name"`
	CallID    string        `json:"call_id"`
	Duration  time.Duration `json:"duration,omitempty"` // set on tool_return only
	IsError   bool          `json:"is_error,omitempty"`
	ErrorKind string        `json:"error_kind,omitempty"`
}

// RoundEvent represents the completion of one decide-and-act round.
type RoundEvent struct {
	EventBase
	Round    int `json:"round"`
	Executed int `json:"executed"` // tool calls dispatched this round
}

// LifecycleHooks defines callbacks for loop observability.
type LifecycleHooks struct {
	OnDecision   func(context.Context, *DecisionEvent)
	OnToolCall   func(context.Context, *ToolEvent)
	OnToolReturn func(context.Context, *ToolEvent)
	OnRoundEnd   func(context.Context, *RoundEvent)
}
