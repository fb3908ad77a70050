package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/voyant"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/ports"
	"github.com/aretw0/voyant/pkg/runner"
)

// countingOracle answers every turn with the number of user messages seen
// so far, which makes thread continuity visible in the output.
type countingOracle struct{}

func (countingOracle) Decide(ctx context.Context, history []domain.Message) (domain.Message, error) {
	n := 0
	for _, m := range history {
		if m.Role == domain.RoleUser {
			n++
		}
	}
	return domain.NewAssistantMessage(fmt.Sprintf("turn %d", n)), nil
}

// echoOracle repeats the latest user message back.
type echoOracle struct{}

func (echoOracle) Decide(ctx context.Context, history []domain.Message) (domain.Message, error) {
	var last string
	for _, m := range history {
		if m.Role == domain.RoleUser {
			last = m.Content
		}
	}
	return domain.NewAssistantMessage("echo: " + last), nil
}

type stubSearcher struct{}

func (stubSearcher) SearchFlights(ctx context.Context, q domain.FlightsQuery) ([]json.RawMessage, error) {
	return nil, nil
}

func (stubSearcher) SearchHotels(ctx context.Context, q domain.HotelsQuery) ([]json.RawMessage, error) {
	return nil, nil
}

func newAgent(t *testing.T, oracle ports.Oracle) *voyant.Agent {
	t.Helper()
	agent, err := voyant.New(oracle,
		voyant.WithFlightSearcher(stubSearcher{}),
		voyant.WithHotelSearcher(stubSearcher{}),
	)
	require.NoError(t, err)
	return agent
}

func TestRun_EchoConversation(t *testing.T) {
	in := strings.NewReader("hello there\nexit\n")
	var out bytes.Buffer

	r := runner.New(newAgent(t, echoOracle{}), runner.WithIO(in, &out))
	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, out.String(), "echo: hello there")
	assert.NotEmpty(t, r.ThreadID())
}

func TestRun_QuitBeforeAnyTurn(t *testing.T) {
	in := strings.NewReader("quit\n")
	var out bytes.Buffer

	r := runner.New(newAgent(t, echoOracle{}), runner.WithIO(in, &out))
	require.NoError(t, r.Run(context.Background()))

	assert.Empty(t, r.ThreadID())
	assert.NotContains(t, out.String(), "echo:")
}

func TestRun_EOFEndsCleanly(t *testing.T) {
	// Reader runs dry without an explicit exit.
	in := strings.NewReader("first question\n")
	var out bytes.Buffer

	r := runner.New(newAgent(t, echoOracle{}), runner.WithIO(in, &out))
	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, out.String(), "echo: first question")
}

func TestRun_KeepsThreadAcrossTurns(t *testing.T) {
	in := strings.NewReader("one\ntwo\nexit\n")
	var out bytes.Buffer

	r := runner.New(newAgent(t, countingOracle{}), runner.WithIO(in, &out))
	require.NoError(t, r.Run(context.Background()))

	// The second answer sees both user turns, so history accumulated on
	// one thread rather than starting over.
	assert.Contains(t, out.String(), "turn 1")
	assert.Contains(t, out.String(), "turn 2")
}

func TestRun_ResumesGivenThread(t *testing.T) {
	agent := newAgent(t, countingOracle{})

	first := runner.New(agent, runner.WithIO(strings.NewReader("one\nexit\n"), &bytes.Buffer{}))
	require.NoError(t, first.Run(context.Background()))
	require.NotEmpty(t, first.ThreadID())

	var out bytes.Buffer
	second := runner.New(agent,
		runner.WithIO(strings.NewReader("two\nexit\n"), &out),
		runner.WithThreadID(first.ThreadID()),
	)
	require.NoError(t, second.Run(context.Background()))

	assert.Contains(t, out.String(), "turn 2")
	assert.Equal(t, first.ThreadID(), second.ThreadID())
}

func TestRun_RendererTransformsReplies(t *testing.T) {
	in := strings.NewReader("hi\nexit\n")
	var out bytes.Buffer

	r := runner.New(newAgent(t, echoOracle{}),
		runner.WithIO(in, &out),
		runner.WithRenderer(func(s string) (string, error) {
			return "[rendered] " + s, nil
		}),
	)
	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, out.String(), "[rendered] echo: hi")
}

func TestRun_JSONHandlerSpeaksReplyLines(t *testing.T) {
	in := strings.NewReader("\"hi there\"\nexit\n")
	var out bytes.Buffer

	r := runner.New(newAgent(t, echoOracle{}),
		runner.WithInputHandler(runner.NewJSONHandler(in, &out)),
	)
	require.NoError(t, r.Run(context.Background()))

	var reply domain.Reply
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out.String())), &reply))
	assert.Equal(t, "echo: hi there", reply.Text)
	assert.NotEmpty(t, reply.ThreadID)
}

func TestRun_RequiresAgent(t *testing.T) {
	r := runner.New(nil, runner.WithIO(strings.NewReader("exit\n"), &bytes.Buffer{}))
	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent is required")
}
