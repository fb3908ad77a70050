package domain

// Role identifies the author of a conversational turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn in a conversation. History is an append-only ordered
// sequence of Messages owned by the thread for the lifetime of a session.
type Message struct {
	Role    Role   `json:"role" yaml:"role" mapstructure:"role"`
	Content string `json:"content" yaml:"content" mapstructure:"content"`

	// ToolCalls carries the lookups requested by the assistant, if any.
	ToolCalls []ToolCall `json:"tool_calls,omitempty" yaml:"tool_calls,omitempty" mapstructure:"tool_calls"`

	// ToolName and ToolCallID are set on tool-result turns only.
	ToolName   string `json:"tool_name,omitempty" yaml:"tool_name,omitempty" mapstructure:"tool_name"`
	ToolCallID string `json:"tool_call_id,omitempty" yaml:"tool_call_id,omitempty" mapstructure:"tool_call_id"`
}

// NewSystemMessage builds the instruction turn prepended to the oracle's view.
// It is never stored in thread history.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage builds a user turn.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage builds an assistant turn.
func NewAssistantMessage(content string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: calls}
}

// NewToolMessage builds a tool-result turn from a dispatched result.
func NewToolMessage(res ToolResult) Message {
	return Message{
		Role:       RoleTool,
		Content:    res.Content,
		ToolName:   res.Name,
		ToolCallID: res.ID,
	}
}

// HasToolCalls reports whether this turn requests any tool executions.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}
