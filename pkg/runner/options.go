package runner

import (
	"io"
	"log/slog"
)

// Option customizes a Runner at construction time.
type Option func(*Runner)

// WithLogger sets the structured logger. A nil logger keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithInputHandler swaps the conversation I/O strategy, such as the JSON
// line protocol used by non-interactive clients.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.handler = handler
	}
}

// WithThreadID resumes an existing conversation thread instead of
// starting a fresh one.
func WithThreadID(id string) Option {
	return func(r *Runner) {
		r.threadID = id
	}
}

// WithIO sets the reader and writer used by the default text handler.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *Runner) {
		r.input = in
		r.output = out
	}
}

// WithRenderer sets how assistant replies are drawn, for instance Markdown
// in a terminal.
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.renderer = renderer
	}
}
