package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/voyant"
	"github.com/aretw0/voyant/internal/logging"
)

// Runner drives one conversation with an agent until the user leaves.
// Every turn goes through the same thread, so the agent keeps context
// across questions. Construct it with New; the zero value is not usable.
type Runner struct {
	agent    *voyant.Agent
	handler  IOHandler
	logger   *slog.Logger
	threadID string
	input    io.Reader
	output   io.Writer
	renderer ContentRenderer
}

// New creates a Runner over the given agent. Without options it talks
// plain text on Stdin/Stdout and starts a fresh thread.
func New(agent *voyant.Agent, opts ...Option) *Runner {
	r := &Runner{
		agent:  agent,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ThreadID returns the conversation thread the runner is holding. It is
// empty until the first completed turn unless WithThreadID set one.
func (r *Runner) ThreadID() string {
	return r.threadID
}

// Run executes the conversation loop until EOF, an explicit "exit" or
// "quit", or a failed turn.
func (r *Runner) Run(ctx context.Context) error {
	if r.agent == nil {
		return fmt.Errorf("an agent is required")
	}
	handler := r.resolveHandler()

	for {
		text, err := handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			return nil
		}

		reply, err := r.agent.Resume(ctx, r.threadID, text)
		if err != nil {
			if isRejectedInput(err) {
				// The handler should have caught this; skip the turn
				// rather than kill the conversation.
				r.logger.Warn("turn rejected", "err", err)
				continue
			}
			return err
		}

		r.threadID = reply.ThreadID
		if err := handler.Output(ctx, reply); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}

func isRejectedInput(err error) bool {
	return errors.Is(err, voyant.ErrEmptyInput) ||
		errors.Is(err, voyant.ErrInputTooLarge) ||
		errors.Is(err, voyant.ErrInvalidUTF8)
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.handler != nil {
		return r.handler
	}
	th := NewTextHandler(r.input, r.output)
	th.Renderer = r.renderer
	// Memoize so subsequent Run calls reuse the same buffered reader
	r.handler = th
	return th
}
