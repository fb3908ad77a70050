package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/aretw0/voyant/pkg/domain"
)

func TestRecorder_CountsLoopActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)
	hooks := rec.Hooks()
	ctx := context.Background()

	hooks.OnDecision(ctx, &domain.DecisionEvent{Round: 0, ToolCalls: 2})
	hooks.OnDecision(ctx, &domain.DecisionEvent{Round: 1, Final: true})

	hooks.OnToolCall(ctx, &domain.ToolEvent{ToolName: domain.ToolSearchFlights})
	hooks.OnToolCall(ctx, &domain.ToolEvent{ToolName: domain.ToolSearchFlights})
	hooks.OnToolCall(ctx, &domain.ToolEvent{ToolName: domain.ToolSearchHotels})

	hooks.OnToolReturn(ctx, &domain.ToolEvent{
		ToolName: domain.ToolSearchFlights,
		Duration: 120 * time.Millisecond,
	})

	assert.Equal(t, float64(2), testutil.ToFloat64(rec.rounds))
	assert.Equal(t, float64(2), testutil.ToFloat64(rec.toolCalls.WithLabelValues(domain.ToolSearchFlights)))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.toolCalls.WithLabelValues(domain.ToolSearchHotels)))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.toolDuration))
}

func TestRecorder_CountsUnresolvedLocations(t *testing.T) {
	rec := NewRecorder(prometheus.NewRegistry())
	hooks := rec.Hooks()
	ctx := context.Background()

	hooks.OnToolReturn(ctx, &domain.ToolEvent{
		ToolName:  domain.ToolSearchFlights,
		IsError:   true,
		ErrorKind: domain.ErrKindUnresolvedLocation,
	})
	hooks.OnToolReturn(ctx, &domain.ToolEvent{
		ToolName:  domain.ToolSearchHotels,
		IsError:   true,
		ErrorKind: domain.ErrKindInvalidArguments,
	})
	hooks.OnToolReturn(ctx, &domain.ToolEvent{ToolName: domain.ToolSearchHotels})

	assert.Equal(t, float64(1), testutil.ToFloat64(rec.unresolved))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(rec.toolErrors.WithLabelValues(domain.ToolSearchFlights, domain.ErrKindUnresolvedLocation)))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(rec.toolErrors.WithLabelValues(domain.ToolSearchHotels, domain.ErrKindInvalidArguments)))
}

func TestCombine_FiresEverySet(t *testing.T) {
	var order []string
	first := domain.LifecycleHooks{
		OnDecision: func(context.Context, *domain.DecisionEvent) { order = append(order, "first") },
	}
	second := domain.LifecycleHooks{
		OnDecision: func(context.Context, *domain.DecisionEvent) { order = append(order, "second") },
		OnRoundEnd: func(context.Context, *domain.RoundEvent) { order = append(order, "round") },
	}

	combined := Combine(first, second)
	ctx := context.Background()

	combined.OnDecision(ctx, &domain.DecisionEvent{})
	combined.OnRoundEnd(ctx, &domain.RoundEvent{})
	combined.OnToolCall(ctx, &domain.ToolEvent{}) // no subscribers, must not panic

	assert.Equal(t, []string{"first", "second", "round"}, order)
}
