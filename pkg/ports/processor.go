package ports

import (
	"context"

	"github.com/aretw0/voyant/pkg/domain"
)

// Processor is the externally visible entry point of the agent. Adapters
// (HTTP, MCP, CLI) depend on this interface rather than a concrete engine so
// tests can drive them with stubs.
type Processor interface {
	// Process starts a fresh thread from user text and drives the loop to
	// completion.
	Process(ctx context.Context, userText string) (*domain.Reply, error)

	// Resume appends user text to an existing thread and drives the loop to
	// completion again. Unknown IDs start a fresh thread under that ID.
	Resume(ctx context.Context, threadID, userText string) (*domain.Reply, error)
}
