package voyant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/internal/runtime"
	"github.com/aretw0/voyant/pkg/adapters/memory"
	"github.com/aretw0/voyant/pkg/dispatch"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/ports"
	"github.com/aretw0/voyant/pkg/profile"
	"github.com/aretw0/voyant/pkg/session"
)

// Agent is the high-level entry point for the Voyant library.
// It wraps the internal orchestration loop and provides a simplified API
// for consumers: hand it user text, get back an answer plus whatever the
// travel tools found along the way.
type Agent struct {
	oracle     ports.Oracle
	flights    ports.FlightSearcher
	hotels     ports.HotelSearcher
	dispatcher ports.ToolDispatcher
	store      ports.HistoryStore
	locker     ports.DistributedLocker
	lockTTL    time.Duration
	sessions   *session.Manager
	orch       *runtime.Orchestrator
	system     string
	maxRounds  int
	parallel   bool
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

// Option defines a functional option for configuring the Agent.
type Option func(*Agent)

// WithFlightSearcher injects the flight lookup collaborator.
func WithFlightSearcher(s ports.FlightSearcher) Option {
	return func(a *Agent) {
		a.flights = s
	}
}

// WithHotelSearcher injects the hotel lookup collaborator.
func WithHotelSearcher(s ports.HotelSearcher) Option {
	return func(a *Agent) {
		a.hotels = s
	}
}

// WithToolDispatcher injects a custom dispatcher, bypassing the default one
// built from the flight and hotel searchers.
func WithToolDispatcher(d ports.ToolDispatcher) Option {
	return func(a *Agent) {
		a.dispatcher = d
	}
}

// WithHistoryStore sets the thread persistence adapter (default: in-memory).
func WithHistoryStore(s ports.HistoryStore) Option {
	return func(a *Agent) {
		a.store = s
	}
}

// WithDistributedLocker enables cross-replica thread locking.
func WithDistributedLocker(l ports.DistributedLocker) Option {
	return func(a *Agent) {
		a.locker = l
	}
}

// WithLockTTL overrides how long a distributed lock may outlive a crashed
// holder. It only matters together with WithDistributedLocker.
func WithLockTTL(ttl time.Duration) Option {
	return func(a *Agent) {
		a.lockTTL = ttl
	}
}

// WithSystemInstruction overrides the built-in steering text shown to the
// oracle on every decision. An empty value selects the default profile.
func WithSystemInstruction(text string) Option {
	return func(a *Agent) {
		a.system = text
	}
}

// WithMaxRounds caps the decisions per turn before the loop gives up and
// returns its best effort.
func WithMaxRounds(n int) Option {
	return func(a *Agent) {
		a.maxRounds = n
	}
}

// WithParallelTools runs the tool calls of a round concurrently.
func WithParallelTools(enabled bool) Option {
	return func(a *Agent) {
		a.parallel = enabled
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Agent) {
		a.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the agent.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// New initializes a new Voyant Agent around the given oracle.
// By default it builds the standard dispatcher over the configured searchers
// and keeps thread history in memory. Inject WithToolDispatcher or
// WithHistoryStore to change either.
func New(oracle ports.Oracle, opts ...Option) (*Agent, error) {
	if oracle == nil {
		return nil, fmt.Errorf("an oracle is required")
	}

	a := &Agent{oracle: oracle}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logging.NewNop()
	}

	// If no dispatcher was injected, build the default one. It needs both
	// collaborators; a travel agent without lookups is not useful.
	if a.dispatcher == nil {
		if a.flights == nil || a.hotels == nil {
			return nil, fmt.Errorf("flight and hotel searchers are required when no custom dispatcher is provided")
		}
		a.dispatcher = dispatch.New(a.flights, a.hotels, dispatch.WithLogger(a.logger))
	}

	if a.store == nil {
		a.store = memory.New()
	}

	if a.system == "" {
		a.system = profile.Default()
	}

	sessionOpts := []session.Option{session.WithLogger(a.logger)}
	if a.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(a.locker))
	}
	if a.lockTTL > 0 {
		sessionOpts = append(sessionOpts, session.WithLockTTL(a.lockTTL))
	}
	a.sessions = session.NewManager(a.store, sessionOpts...)

	a.orch = runtime.New(a.oracle, a.dispatcher,
		runtime.WithSystemInstruction(a.system),
		runtime.WithMaxRounds(a.maxRounds),
		runtime.WithParallelTools(a.parallel),
		runtime.WithLifecycleHooks(a.hooks),
		runtime.WithLogger(a.logger),
	)

	return a, nil
}

// Process answers one user request on a brand new thread.
// The returned Reply carries the final text, the structured records every
// successful tool produced, and the thread ID for follow-up turns.
func (a *Agent) Process(ctx context.Context, userText string) (*domain.Reply, error) {
	text, err := SanitizeInput(userText)
	if err != nil {
		return nil, err
	}
	return a.converse(ctx, uuid.NewString(), text)
}

// Resume continues a conversation under an existing thread ID. Thread state
// is created lazily, so an ID that was never seen before simply starts a
// fresh thread; an empty ID behaves like Process.
func (a *Agent) Resume(ctx context.Context, threadID, userText string) (*domain.Reply, error) {
	text, err := SanitizeInput(userText)
	if err != nil {
		return nil, err
	}
	if threadID == "" {
		threadID = uuid.NewString()
	}
	return a.converse(ctx, threadID, text)
}

// converse runs one full turn while holding the thread's session lock, so
// concurrent requests against the same thread serialize instead of
// interleaving history.
func (a *Agent) converse(ctx context.Context, threadID, text string) (*domain.Reply, error) {
	var reply *domain.Reply
	err := a.sessions.WithLock(ctx, threadID, func(ctx context.Context) error {
		thread, err := a.store.Load(ctx, threadID)
		if errors.Is(err, domain.ErrThreadNotFound) {
			thread = domain.NewThread(threadID)
		} else if err != nil {
			return fmt.Errorf("failed to load thread %s: %w", threadID, err)
		}

		thread.Append(domain.NewUserMessage(text))

		reply, err = a.orch.RunThread(ctx, thread)
		if err != nil {
			return err
		}

		if err := a.store.Save(ctx, thread); err != nil {
			return fmt.Errorf("failed to persist thread %s: %w", thread.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// Store returns the underlying history store used by the agent.
func (a *Agent) Store() ports.HistoryStore {
	return a.store
}

// Sessions returns the session manager guarding thread access.
func (a *Agent) Sessions() *session.Manager {
	return a.sessions
}
