package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/voyant"
	"github.com/aretw0/voyant/pkg/domain"
)

// IOHandler abstracts how a conversation reaches the user. The default is
// line-oriented text; non-interactive clients swap in the JSON protocol.
type IOHandler interface {
	// Input reads the next user turn. io.EOF ends the conversation cleanly.
	Input(ctx context.Context) (string, error)

	// Output presents one agent reply.
	Output(ctx context.Context, reply *domain.Reply) error
}

// ContentRenderer transforms reply text before it is written, for instance
// Markdown to ANSI. Rendering failures fall back to the raw text.
type ContentRenderer func(string) (string, error)

// TextHandler speaks plain line-oriented text over a "> " prompt.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
}

// NewTextHandler wires a text handler to r and w, defaulting to the
// process stdio when either is nil.
func NewTextHandler(r io.Reader, w io.Writer) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &TextHandler{Reader: bufio.NewReader(r), Writer: w}
}

// Input prompts, reads one line and sanitizes it. Input the agent would
// reject is reported to the user and the prompt retried, so the conversation
// never dies on a typo-sized problem.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	for {
		fmt.Fprint(h.Writer, "> ")

		line, err := h.Reader.ReadString('\n')
		if err != nil {
			return "", err
		}

		clean, err := voyant.SanitizeInput(strings.TrimSpace(line))
		if err != nil {
			if errors.Is(err, voyant.ErrEmptyInput) {
				// Blank line, just re-prompt
				continue
			}
			fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
			continue
		}
		return clean, nil
	}
}

func (h *TextHandler) Output(ctx context.Context, reply *domain.Reply) error {
	if reply == nil || reply.Text == "" {
		return nil
	}
	output := reply.Text
	if h.Renderer != nil {
		rendered, err := h.Renderer(reply.Text)
		if err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimSpace(output))
	return err
}
