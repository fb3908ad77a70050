package domain

// ToolCall represents a lookup requested by the decision oracle.
// Shape-compatible with OpenAI/MCP tool call schemas.
type ToolCall struct {
	ID   string         `json:"id" yaml:"id" mapstructure:"id"`             // Unique within one decision round
	Name string         `json:"name" yaml:"name" mapstructure:"name"`       // Registered tool name
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args"` // Untyped until coerced by the dispatcher
}

// Machine-readable categories for error-flagged tool results. Content stays
// the wire form the oracle sees; the kind is local bookkeeping for hooks and
// metrics.
const (
	ErrKindUnknownTool        = "unknown_tool"
	ErrKindInvalidArguments   = "invalid_arguments"
	ErrKindUnresolvedLocation = "unresolved_location"
)

// ToolResult represents the outcome of executing one ToolCall.
type ToolResult struct {
	ID        string `json:"id"` // Must match the ToolCall.ID
	Name      string `json:"name"`
	Content   string `json:"content"` // Serialized payload or error indicator
	IsError   bool   `json:"is_error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"` // One of the ErrKind constants when IsError is set
}

// Tool defines metadata about a tool available to the oracle.
// This is used for generating schemas/prompts.
type Tool struct {
	Name        string         `json:"name" yaml:"name" mapstructure:"name"`
	Description string         `json:"description" yaml:"description" mapstructure:"description"`
	Parameters  map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty" mapstructure:"parameters"`
}
