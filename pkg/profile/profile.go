// Package profile provides the agent's steering instruction. A default is
// compiled in; operators can override it with a Loam document repository so
// the prompt is edited like content, not code.
package profile

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/aretw0/loam"
)

// DocumentID is the document looked up in a profile repository (agent.md).
const DocumentID = "agent"

// Metadata is the frontmatter of a profile document.
type Metadata struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
}

// Profile is a loaded steering profile.
type Profile struct {
	Name        string
	Description string
	Instruction string
}

const defaultInstruction = `You are a smart travel agency. Use the tools to look up information.
You are allowed to make multiple calls (either together or in sequence).
Only look up information when you are sure of what you want.
The current year is {{.current_year}}.
If you need to look up some information before asking a follow up question, you are allowed to do that!
In your output always include the price of the flight and the price of the hotel and the currency as well (if possible).
Include links to hotel and flight websites and the hotel and airline logos whenever the results carry them.
For example for hotels:
Rate: $581 per night
Total: $3,488`

// Default returns the built-in instruction with template variables applied.
func Default() string {
	out, err := Render(defaultInstruction)
	if err != nil {
		return defaultInstruction
	}
	return out
}

// Render executes instruction text as a Go template. Profiles currently see
// {{.current_year}}; unknown variables are errors so a typo surfaces at load
// time rather than silently reaching the oracle.
func Render(text string) (string, error) {
	tmpl, err := template.New(DocumentID).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("invalid profile template: %w", err)
	}

	data := map[string]any{
		"current_year": time.Now().Year(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render profile: %w", err)
	}
	return buf.String(), nil
}

// Load reads a profile from a Loam repository at path. The repository must
// contain a document named "agent" (e.g. agent.md) whose body is the
// instruction text and whose frontmatter may carry a name and description.
func Load(ctx context.Context, path string) (*Profile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// ReadOnly keeps Loam from sandboxing the directory; the agent only ever
	// reads its profile.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	typed := loam.NewTypedRepository[Metadata](repo)
	doc, err := typed.Get(ctx, DocumentID)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", DocumentID, err)
	}

	instruction, err := Render(strings.TrimSpace(doc.Content))
	if err != nil {
		return nil, err
	}

	p := &Profile{
		Name:        doc.Data.Name,
		Description: doc.Data.Description,
		Instruction: instruction,
	}
	if p.Name == "" {
		p.Name = DocumentID
	}
	return p, nil
}
