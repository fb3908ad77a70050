// Package graph renders conversation threads as Mermaid sequence diagrams,
// useful for debugging a conversation or documenting tool traffic.
package graph

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/voyant/pkg/domain"
)

const labelWidth = 48

// GenerateMermaid produces a Mermaid sequence diagram from a thread.
// Participants are the user, the agent, and every tool that was called.
// Tool calls are labeled with their call ID so returns can be correlated;
// structured tool errors surface as "error: ..." on the return arrow.
func GenerateMermaid(thread *domain.Thread) string {
	var sb strings.Builder
	sb.WriteString("sequenceDiagram\n")
	sb.WriteString("    participant U as User\n")
	sb.WriteString("    participant A as Agent\n")

	aliases, order := toolAliases(thread)
	for _, name := range order {
		sb.WriteString(fmt.Sprintf("    participant %s as %s\n", aliases[name], name))
	}

	for _, m := range thread.Messages {
		switch m.Role {
		case domain.RoleUser:
			sb.WriteString(fmt.Sprintf("    U->>A: %s\n", sanitizeLabel(m.Content)))
		case domain.RoleAssistant:
			for _, call := range m.ToolCalls {
				sb.WriteString(fmt.Sprintf("    A->>%s: %s\n", aliases[call.Name], call.ID))
			}
			if m.Content != "" {
				sb.WriteString(fmt.Sprintf("    A-->>U: %s\n", sanitizeLabel(m.Content)))
			}
		case domain.RoleTool:
			alias, ok := aliases[m.ToolName]
			if !ok {
				// A stray return without a matching call; nothing to draw.
				continue
			}
			sb.WriteString(fmt.Sprintf("    %s-->>A: %s\n", alias, returnLabel(m.Content)))
		}
	}

	return sb.String()
}

// toolAliases assigns short participant IDs (T1, T2, ...) to tools in
// first-call order.
func toolAliases(thread *domain.Thread) (map[string]string, []string) {
	aliases := make(map[string]string)
	var order []string
	for _, m := range thread.Messages {
		for _, call := range m.ToolCalls {
			if _, ok := aliases[call.Name]; !ok {
				aliases[call.Name] = fmt.Sprintf("T%d", len(aliases)+1)
				order = append(order, call.Name)
			}
		}
	}
	return aliases, order
}

// returnLabel summarizes a tool result. Structured errors keep their message;
// successful JSON payloads collapse to "results" since the raw data is far
// too large for a diagram label.
func returnLabel(content string) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &e); err == nil && e.Error != "" {
		return "error: " + sanitizeLabel(e.Error)
	}
	if json.Valid([]byte(content)) {
		return "results"
	}
	return sanitizeLabel(content)
}

// sanitizeLabel collapses whitespace and strips characters Mermaid treats
// as syntax, then truncates to a readable width.
func sanitizeLabel(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, ";", ",")
	s = strings.ReplaceAll(s, "#", "")
	r := []rune(s)
	if len(r) <= labelWidth {
		return s
	}
	return string(r[:labelWidth-3]) + "..."
}
