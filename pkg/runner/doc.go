/*
Package runner implements the interactive conversation loop over an Agent.

It acts as the bridge between the agent facade and the outside world. The
runner reads user turns, forwards them to the agent under a stable thread ID,
and presents each reply through a pluggable handler.

# Key Components

  - Runner: the loop driver; one instance keeps one conversation thread alive.
  - IOHandler: decouples how turns are read and replies presented (text, JSON).
  - TextHandler: the standard implementation for interactive CLI usage.

# Usage

	r := runner.New(agent,
		runner.WithRenderer(tui.NewRenderer()),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
