package observability

import (
	"context"

	"github.com/aretw0/voyant/pkg/domain"
)

// Combine merges several hook sets into one. Every non-nil callback fires,
// in the order the sets were given, so metrics and event streaming can share
// a single loop.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDecision: func(ctx context.Context, e *domain.DecisionEvent) {
			for _, h := range sets {
				if h.OnDecision != nil {
					h.OnDecision(ctx, e)
				}
			}
		},
		OnToolCall: func(ctx context.Context, e *domain.ToolEvent) {
			for _, h := range sets {
				if h.OnToolCall != nil {
					h.OnToolCall(ctx, e)
				}
			}
		},
		OnToolReturn: func(ctx context.Context, e *domain.ToolEvent) {
			for _, h := range sets {
				if h.OnToolReturn != nil {
					h.OnToolReturn(ctx, e)
				}
			}
		},
		OnRoundEnd: func(ctx context.Context, e *domain.RoundEvent) {
			for _, h := range sets {
				if h.OnRoundEnd != nil {
					h.OnRoundEnd(ctx, e)
				}
			}
		},
	}
}
