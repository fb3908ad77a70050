package ports

import (
	"context"

	"github.com/aretw0/voyant/pkg/domain"
)

// ToolDispatcher defines how side-effects requested by the oracle are executed.
// The orchestrator emits calls, and the host implements this interface to
// handle them. Implementations must fold every failure into the returned
// result; a tool fault is conversation data, not a reason to halt the loop.
type ToolDispatcher interface {
	Execute(ctx context.Context, call domain.ToolCall) domain.ToolResult
}
