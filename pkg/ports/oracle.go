package ports

import (
	"context"

	"github.com/aretw0/voyant/pkg/domain"
)

// Oracle is the decision step of the conversation loop. Given the full
// history (system instruction first), it returns either a final answer or an
// assistant message carrying one or more ToolCalls.
//
// The real implementation is an external model call; tests replace it with
// deterministic stubs. The loop never depends on a specific provider.
type Oracle interface {
	Decide(ctx context.Context, history []domain.Message) (domain.Message, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(ctx context.Context, history []domain.Message) (domain.Message, error)

// Decide implements Oracle.
func (f OracleFunc) Decide(ctx context.Context, history []domain.Message) (domain.Message, error) {
	return f(ctx, history)
}
