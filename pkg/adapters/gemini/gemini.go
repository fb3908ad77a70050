// Package gemini adapts the Google Gemini API to the oracle port.
//
// Thread history maps onto Gemini contents: the leading system turn becomes
// the system instruction, assistant turns become model contents carrying
// function calls, and tool turns become function responses. Gemini matches
// calls to responses by name and order; the loop's call IDs are local
// bookkeeping and never go over the wire.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/ports"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.0-flash-lite"

const (
	roleUser  = "user"
	roleModel = "model"
)

// Compile-time check: Oracle implements the oracle port.
var _ ports.Oracle = (*Oracle)(nil)

// Oracle drives decisions through the Gemini API.
type Oracle struct {
	client      *genai.Client
	model       string
	tools       []*genai.Tool
	temperature *float32
	logger      *slog.Logger
}

// Option configures the Oracle.
type Option func(*Oracle)

// WithModel selects the Gemini model.
func WithModel(model string) Option {
	return func(o *Oracle) {
		if model != "" {
			o.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(o *Oracle) {
		o.temperature = &t
	}
}

// WithLogger sets the internal logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Oracle) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates a Gemini-backed oracle exposing the given tool catalog.
func New(ctx context.Context, apiKey string, catalog []domain.Tool, opts ...Option) (*Oracle, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	o := &Oracle{
		client: client,
		model:  DefaultModel,
		tools:  declarations(catalog),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Decide implements ports.Oracle.
func (o *Oracle) Decide(ctx context.Context, history []domain.Message) (domain.Message, error) {
	system, contents := toContents(history)

	config := &genai.GenerateContentConfig{
		Tools:             o.tools,
		SystemInstruction: system,
	}
	if o.temperature != nil {
		config.Temperature = o.temperature
	}

	o.logger.Debug("asking gemini for a decision", "model", o.model, "turns", len(contents))

	resp, err := o.client.Models.GenerateContent(ctx, o.model, contents, config)
	if err != nil {
		return domain.Message{}, fmt.Errorf("gemini generate call failed: %w", err)
	}

	msg := decision(resp)
	o.logger.Debug("gemini decided", "tool_calls", len(msg.ToolCalls))
	return msg, nil
}

// declarations folds the catalog into a single Tool block; Gemini expects all
// function declarations together.
func declarations(catalog []domain.Tool) []*genai.Tool {
	if len(catalog) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, 0, len(catalog))
	for _, tool := range catalog {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  toSchema(tool.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// toSchema converts a JSON-schema parameter map into Gemini's typed schema.
func toSchema(spec map[string]any) *genai.Schema {
	if spec == nil {
		return nil
	}
	s := &genai.Schema{}
	if t, ok := spec["type"].(string); ok {
		s.Type = schemaType(t)
	}
	if d, ok := spec["description"].(string); ok {
		s.Description = d
	}
	if props, ok := spec["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, sub := range props {
			if subSpec, ok := sub.(map[string]any); ok {
				s.Properties[name] = toSchema(subSpec)
			}
		}
	}
	if items, ok := spec["items"].(map[string]any); ok {
		s.Items = toSchema(items)
	}
	switch req := spec["required"].(type) {
	case []string:
		s.Required = req
	case []any:
		for _, r := range req {
			if name, ok := r.(string); ok {
				s.Required = append(s.Required, name)
			}
		}
	}
	return s
}

func schemaType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}

// toContents maps thread history to Gemini contents. The system turn is
// returned separately for GenerateContentConfig.SystemInstruction. Adjacent
// tool turns merge into one content so parallel call results arrive as a
// single function-response turn.
func toContents(history []domain.Message) (*genai.Content, []*genai.Content) {
	var system *genai.Content
	contents := make([]*genai.Content, 0, len(history))

	for _, msg := range history {
		switch msg.Role {
		case domain.RoleSystem:
			system = &genai.Content{Parts: []*genai.Part{{Text: msg.Content}}}

		case domain.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  roleUser,
				Parts: []*genai.Part{{Text: msg.Content}},
			})

		case domain.RoleAssistant:
			var parts []*genai.Part
			if msg.Content != "" {
				parts = append(parts, &genai.Part{Text: msg.Content})
			}
			for _, call := range msg.ToolCalls {
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					Name: call.Name,
					Args: call.Args,
				}})
			}
			if len(parts) == 0 {
				continue
			}
			contents = append(contents, &genai.Content{Role: roleModel, Parts: parts})

		case domain.RoleTool:
			part := &genai.Part{FunctionResponse: &genai.FunctionResponse{
				Name:     msg.ToolName,
				Response: toolResponsePayload(msg.Content),
			}}
			if n := len(contents); n > 0 && isFunctionResponse(contents[n-1]) {
				contents[n-1].Parts = append(contents[n-1].Parts, part)
			} else {
				contents = append(contents, &genai.Content{Role: roleUser, Parts: []*genai.Part{part}})
			}
		}
	}
	return system, contents
}

func isFunctionResponse(c *genai.Content) bool {
	return len(c.Parts) > 0 && c.Parts[0].FunctionResponse != nil
}

// toolResponsePayload lifts serialized tool content into the structured map
// Gemini requires. Result lists land under "results", bare strings such as
// the retry signal under "content".
func toolResponsePayload(content string) map[string]any {
	var decoded any
	if err := json.Unmarshal([]byte(content), &decoded); err == nil {
		if obj, ok := decoded.(map[string]any); ok {
			return obj
		}
		return map[string]any{"results": decoded}
	}
	return map[string]any{"content": content}
}

// decision flattens the first candidate into an assistant turn. Gemini does
// not issue call IDs, so stable local ones are synthesized for the round.
func decision(resp *genai.GenerateContentResponse) domain.Message {
	msg := domain.Message{Role: domain.RoleAssistant}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return msg
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			if msg.Content != "" {
				msg.Content += "\n"
			}
			msg.Content += part.Text
		}
		if part.FunctionCall != nil {
			id := part.FunctionCall.ID
			if id == "" {
				id = fmt.Sprintf("call_%d", len(msg.ToolCalls)+1)
			}
			msg.ToolCalls = append(msg.ToolCalls, domain.ToolCall{
				ID:   id,
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
		}
	}
	return msg
}
