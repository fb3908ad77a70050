package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/voyant/pkg/domain"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines
// communication: one user turn per input line, one reply object per output
// line. Suited for piping and host-process integration.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler wires a JSON handler to r and w, defaulting to the
// process stdio when either is nil.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{Reader: bufio.NewReader(r), Writer: w, Encoder: json.NewEncoder(w)}
}

// Input reads one line and accepts it either as a quoted JSON string or as
// raw text.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	line, err := h.Reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)

	var quoted string
	if err := json.Unmarshal([]byte(line), &quoted); err == nil {
		return quoted, nil
	}
	return line, nil
}

func (h *JSONHandler) Output(ctx context.Context, reply *domain.Reply) error {
	if reply == nil {
		return nil
	}
	return h.Encoder.Encode(reply)
}
