package cli

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/aretw0/voyant"
	"github.com/aretw0/voyant/internal/config"
	"github.com/aretw0/voyant/internal/presentation/tui"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/runner"
)

// ChatOptions contains all the configuration for the chat command.
type ChatOptions struct {
	ConfigPath string
	ThreadID   string
	JSON       bool
	Debug      bool
}

// Chat runs an interactive conversation with the travel agent.
func Chat(opts ChatOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	logger := createLogger(opts.Debug, "")

	hooks := domain.LifecycleHooks{}
	if opts.Debug {
		hooks = createDebugHooks(logger)
	}

	// Setup signal handling
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	agent, err := BuildAgent(sigCtx, cfg, logger, hooks)
	if err != nil {
		return fmt.Errorf("error initializing agent: %w", err)
	}

	interactive := !opts.JSON && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		tui.PrintBanner(voyant.Version)
		printSystemMessage("Ask about flights and hotels. Type 'exit' to leave.")
	}

	stdin := NewInterruptibleReader(os.Stdin, sigCtx.Done())

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithThreadID(opts.ThreadID),
	}
	if opts.JSON {
		runnerOpts = append(runnerOpts, runner.WithInputHandler(runner.NewJSONHandler(stdin, os.Stdout)))
	} else {
		runnerOpts = append(runnerOpts, runner.WithIO(stdin, os.Stdout))
		if interactive {
			runnerOpts = append(runnerOpts, runner.WithRenderer(tui.NewRenderer()))
		}
	}

	r := runner.New(agent, runnerOpts...)

	runErr := r.Run(sigCtx)
	if sigCtx.Err() != nil && runErr == nil {
		runErr = sigCtx.Err()
	}

	if interactive {
		if sigCtx.Signal() == os.Interrupt {
			// The ^C landed mid-prompt; move to a fresh line first.
			fmt.Printf("\n")
		}
		if handleExecutionError(runErr) == nil {
			printSystemMessage("Bye!")
		}
	}

	return handleExecutionError(runErr)
}
