package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/voyant/pkg/domain"
)

// Recorder owns the Prometheus collectors for the conversation loop.
type Recorder struct {
	rounds       prometheus.Counter
	toolCalls    *prometheus.CounterVec
	toolErrors   *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	unresolved   prometheus.Counter
}

// NewRecorder builds the loop collectors and registers them on reg.
// Registering the same recorder twice on one registry panics, as usual for
// prometheus collectors.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voyant_rounds_total",
			Help: "Total number of oracle decision rounds",
		}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voyant_tool_calls_total",
			Help: "Total number of tool calls dispatched",
		}, []string{"tool"}),
		toolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voyant_tool_errors_total",
			Help: "Total number of tool calls that produced an error result",
		}, []string{"tool", "kind"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "voyant_tool_duration_seconds",
			Help: "Duration of tool executions",
		}, []string{"tool"}),
		unresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voyant_unresolved_locations_total",
			Help: "Total number of tool calls rejected because the location text could not be resolved",
		}),
	}
	reg.MustRegister(r.rounds, r.toolCalls, r.toolErrors, r.toolDuration, r.unresolved)
	return r
}

// Hooks returns the lifecycle callbacks feeding the collectors.
func (r *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDecision: func(_ context.Context, e *domain.DecisionEvent) {
			r.rounds.Inc()
		},
		OnToolCall: func(_ context.Context, e *domain.ToolEvent) {
			r.toolCalls.WithLabelValues(e.ToolName).Inc()
		},
		OnToolReturn: func(_ context.Context, e *domain.ToolEvent) {
			r.toolDuration.WithLabelValues(e.ToolName).Observe(e.Duration.Seconds())
			if e.IsError {
				r.toolErrors.WithLabelValues(e.ToolName, e.ErrorKind).Inc()
			}
			if e.ErrorKind == domain.ErrKindUnresolvedLocation {
				r.unresolved.Inc()
			}
		},
	}
}
