// Package runtime drives the decide-and-act loop between the oracle and the
// tool dispatcher. It owns phase bookkeeping on the thread but performs no IO
// of its own: the oracle decides, the dispatcher executes, and everything the
// tools produce flows back into history as data.
package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/ports"
)

// Orchestrator is the core loop runner. One instance is safe for concurrent
// use across threads; all per-conversation state lives on the Thread.
type Orchestrator struct {
	oracle     ports.Oracle
	dispatcher ports.ToolDispatcher
	system     string
	maxRounds  int
	parallel   bool
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithSystemInstruction sets the steering text prepended to the oracle's view
// on every decision. It is never written into thread history.
func WithSystemInstruction(text string) Option {
	return func(o *Orchestrator) {
		o.system = text
	}
}

// WithMaxRounds caps how many decisions one run may take before the loop
// stops and returns whatever answer exists so far. Values below 1 are ignored.
func WithMaxRounds(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxRounds = n
		}
	}
}

// WithParallelTools executes the calls of a round concurrently. History order
// is unaffected: results are committed in the order the oracle emitted the
// calls, whatever order they finish in.
func WithParallelTools(enabled bool) Option {
	return func(o *Orchestrator) {
		o.parallel = enabled
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = hooks
	}
}

// WithLogger sets the internal logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an Orchestrator around an oracle and a dispatcher.
func New(oracle ports.Oracle, dispatcher ports.ToolDispatcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		oracle:     oracle,
		dispatcher: dispatcher,
		maxRounds:  domain.DefaultMaxRounds,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunThread advances the thread until the oracle answers without requesting
// tools, the round limit is hit, or the context is cancelled.
//
// Tool faults never surface here; the dispatcher folds them into results the
// oracle can react to. The two fatal conditions are cancellation and an
// oracle failure, the latter wrapped in domain.ErrOracleFailure.
func (o *Orchestrator) RunThread(ctx context.Context, thread *domain.Thread) (*domain.Reply, error) {
	payloads := make(map[string][]json.RawMessage)

	for round := 0; round < o.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		thread.Phase = domain.PhaseAwaitingDecision
		decision, err := o.decide(ctx, thread.Messages)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrOracleFailure, err)
		}

		thread.Append(decision)
		thread.Rounds++
		o.emitDecision(ctx, thread, round, decision)

		if !decision.HasToolCalls() {
			thread.Phase = domain.PhaseDone
			return o.reply(thread, payloads), nil
		}

		o.logger.Debug("executing tool round",
			"thread_id", thread.ID, "round", round, "calls", len(decision.ToolCalls))

		thread.Phase = domain.PhaseExecutingTools
		results := o.executeRound(ctx, thread, decision.ToolCalls)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		o.commitResults(thread, decision.ToolCalls, results, payloads)
		o.emitRoundEnd(ctx, thread, round, len(decision.ToolCalls))
	}

	o.logger.Warn("round limit reached, returning best effort answer",
		"thread_id", thread.ID, "max_rounds", o.maxRounds)
	thread.Phase = domain.PhaseDone
	return o.reply(thread, payloads), nil
}

// decide asks the oracle for the next move. The system instruction is
// prepended to a copied view so it never leaks into stored history.
func (o *Orchestrator) decide(ctx context.Context, history []domain.Message) (domain.Message, error) {
	view := history
	if o.system != "" {
		view = make([]domain.Message, 0, len(history)+1)
		view = append(view, domain.NewSystemMessage(o.system))
		view = append(view, history...)
	}
	return o.oracle.Decide(ctx, view)
}

func (o *Orchestrator) executeRound(ctx context.Context, thread *domain.Thread, calls []domain.ToolCall) []domain.ToolResult {
	if o.parallel && len(calls) > 1 {
		return o.executeParallel(ctx, thread, calls)
	}
	results := make([]domain.ToolResult, 0, len(calls))
	for _, call := range calls {
		if ctx.Err() != nil {
			return results
		}
		results = append(results, o.executeOne(ctx, thread, call))
	}
	return results
}

// executeParallel runs every call of the round concurrently. Each result
// lands at its call's index, so the commit below sees emission order.
func (o *Orchestrator) executeParallel(ctx context.Context, thread *domain.Thread, calls []domain.ToolCall) []domain.ToolResult {
	results := make([]domain.ToolResult, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = o.executeOne(ctx, thread, call)
		}()
	}
	wg.Wait()
	return results
}

func (o *Orchestrator) executeOne(ctx context.Context, thread *domain.Thread, call domain.ToolCall) domain.ToolResult {
	o.emitToolCall(ctx, thread, call)
	start := time.Now()
	res := o.dispatcher.Execute(ctx, call)
	o.emitToolReturn(ctx, thread, call, res, time.Since(start))
	return res
}

// commitResults appends results to history in call emission order. A result
// whose ID matches no pending call is dropped; accepting it would let a
// misbehaving dispatcher rewrite turns the oracle never asked for.
func (o *Orchestrator) commitResults(thread *domain.Thread, calls []domain.ToolCall, results []domain.ToolResult, payloads map[string][]json.RawMessage) {
	pending := make(map[string]struct{}, len(calls))
	for _, call := range calls {
		pending[call.ID] = struct{}{}
	}
	for _, res := range results {
		if _, ok := pending[res.ID]; !ok {
			o.logger.Warn("discarding tool result with no pending call",
				"thread_id", thread.ID, "call_id", res.ID, "tool", res.Name)
			continue
		}
		delete(pending, res.ID)
		thread.Append(domain.NewToolMessage(res))
		if !res.IsError {
			o.collectPayloads(payloads, res)
		}
	}
}

// collectPayloads captures structured tool output for the caller. Content
// that is not a JSON record list (e.g. the serializer's string fallback)
// stays in history for the oracle but is not exposed as payload data.
func (o *Orchestrator) collectPayloads(payloads map[string][]json.RawMessage, res domain.ToolResult) {
	var records []json.RawMessage
	if err := json.Unmarshal([]byte(res.Content), &records); err != nil {
		o.logger.Debug("tool content is not a record list, skipping payload capture",
			"tool", res.Name, "err", err)
		return
	}
	payloads[res.Name] = append(payloads[res.Name], records...)
}

func (o *Orchestrator) reply(thread *domain.Thread, payloads map[string][]json.RawMessage) *domain.Reply {
	return &domain.Reply{
		Text:         thread.LastAssistantText(),
		ToolPayloads: payloads,
		ThreadID:     thread.ID,
	}
}

func (o *Orchestrator) eventBase(t domain.EventType, threadID string) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now().UTC(), Type: t, ThreadID: threadID}
}

func (o *Orchestrator) emitDecision(ctx context.Context, thread *domain.Thread, round int, decision domain.Message) {
	if o.hooks.OnDecision == nil {
		return
	}
	o.hooks.OnDecision(ctx, &domain.DecisionEvent{
		EventBase: o.eventBase(domain.EventDecision, thread.ID),
		Round:     round,
		ToolCalls: len(decision.ToolCalls),
		Final:     !decision.HasToolCalls(),
	})
}

func (o *Orchestrator) emitToolCall(ctx context.Context, thread *domain.Thread, call domain.ToolCall) {
	if o.hooks.OnToolCall == nil {
		return
	}
	o.hooks.OnToolCall(ctx, &domain.ToolEvent{
		EventBase: o.eventBase(domain.EventToolCall, thread.ID),
		ToolName:  call.Name,
		CallID:    call.ID,
	})
}

func (o *Orchestrator) emitToolReturn(ctx context.Context, thread *domain.Thread, call domain.ToolCall, res domain.ToolResult, took time.Duration) {
	if o.hooks.OnToolReturn == nil {
		return
	}
	o.hooks.OnToolReturn(ctx, &domain.ToolEvent{
		EventBase: o.eventBase(domain.EventToolReturn, thread.ID),
		ToolName:  call.Name,
		CallID:    call.ID,
		Duration:  took,
		IsError:   res.IsError,
		ErrorKind: res.ErrorKind,
	})
}

func (o *Orchestrator) emitRoundEnd(ctx context.Context, thread *domain.Thread, round, executed int) {
	if o.hooks.OnRoundEnd == nil {
		return
	}
	o.hooks.OnRoundEnd(ctx, &domain.RoundEvent{
		EventBase: o.eventBase(domain.EventRoundEnd, thread.ID),
		Round:     round,
		Executed:  executed,
	})
}
