package runner_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/runner"
)

func TestTextHandler_ReadsTrimmedLine(t *testing.T) {
	in := strings.NewReader("  find me a flight  \n")
	var out bytes.Buffer

	h := runner.NewTextHandler(in, &out)
	got, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "find me a flight", got)
	assert.Contains(t, out.String(), "> ")
}

func TestTextHandler_SkipsBlankLines(t *testing.T) {
	in := strings.NewReader("\n   \nreal input\n")
	var out bytes.Buffer

	h := runner.NewTextHandler(in, &out)
	got, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "real input", got)
}

func TestTextHandler_RetriesOversizedInput(t *testing.T) {
	big := strings.Repeat("a", 5000)
	in := strings.NewReader(big + "\nfine\n")
	var out bytes.Buffer

	h := runner.NewTextHandler(in, &out)
	got, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fine", got)
	assert.Contains(t, out.String(), "Please try again")
}

func TestTextHandler_OutputAppliesRenderer(t *testing.T) {
	var out bytes.Buffer
	h := runner.NewTextHandler(strings.NewReader(""), &out)
	h.Renderer = func(s string) (string, error) {
		return "** " + s + " **", nil
	}

	err := h.Output(context.Background(), &domain.Reply{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "** hello **\n", out.String())
}

func TestTextHandler_OutputFallsBackOnRendererError(t *testing.T) {
	var out bytes.Buffer
	h := runner.NewTextHandler(strings.NewReader(""), &out)
	h.Renderer = func(string) (string, error) {
		return "", errors.New("render failed")
	}

	err := h.Output(context.Background(), &domain.Reply{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out.String())
}

func TestTextHandler_OutputIgnoresEmptyReply(t *testing.T) {
	var out bytes.Buffer
	h := runner.NewTextHandler(strings.NewReader(""), &out)

	require.NoError(t, h.Output(context.Background(), nil))
	require.NoError(t, h.Output(context.Background(), &domain.Reply{}))
	assert.Empty(t, out.String())
}
