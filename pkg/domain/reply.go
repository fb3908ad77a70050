package domain

import "encoding/json"

// Reply is the outcome of driving one conversation to completion: the
// oracle's final text plus every tool payload gathered along the way, keyed
// by tool name in execution order.
type Reply struct {
	Text         string                       `json:"text"`
	ToolPayloads map[string][]json.RawMessage `json:"tool_payloads,omitempty"`
	ThreadID     string                       `json:"thread_id"`
}

// PayloadsFor returns the raw payloads recorded for one tool name.
func (r *Reply) PayloadsFor(tool string) []json.RawMessage {
	if r == nil || r.ToolPayloads == nil {
		return nil
	}
	return r.ToolPayloads[tool]
}
