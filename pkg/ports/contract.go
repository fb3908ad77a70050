package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/voyant/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunHistoryStoreContract runs a suite of tests to verify that a HistoryStore
// implementation adheres to the defined interface contract.
func RunHistoryStoreContract(t *testing.T, store HistoryStore) {
	ctx := context.Background()
	threadID := "contract-test-thread-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		thread := domain.NewThread(threadID)
		thread.Append(
			domain.NewUserMessage("flights from Durban to Harare"),
			domain.NewAssistantMessage("", domain.ToolCall{
				ID:   "call-1",
				Name: domain.ToolSearchFlights,
				Args: map[string]any{"departure_id": "DUR", "arrival_id": "HRE"},
			}),
		)
		thread.Phase = domain.PhaseExecutingTools
		thread.Rounds = 1

		err := store.Save(ctx, thread)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, threadID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, thread.ID, loaded.ID)
		assert.Equal(t, domain.PhaseExecutingTools, loaded.Phase)
		assert.Equal(t, 1, loaded.Rounds)
		require.Len(t, loaded.Messages, 2)
		assert.Equal(t, domain.RoleUser, loaded.Messages[0].Role)
		require.Len(t, loaded.Messages[1].ToolCalls, 1)
		assert.Equal(t, domain.ToolSearchFlights, loaded.Messages[1].ToolCalls[0].Name)
		// JSON persistence may widen numeric arg types; only presence is contractual.
		assert.Contains(t, loaded.Messages[1].ToolCalls[0].Args, "departure_id")
	})

	t.Run("Load Is Isolated From Later Mutation", func(t *testing.T) {
		thread := domain.NewThread(threadID + "-iso")
		thread.Append(domain.NewUserMessage("original"))
		require.NoError(t, store.Save(ctx, thread))

		thread.Messages[0].Content = "mutated after save"

		loaded, err := store.Load(ctx, thread.ID)
		require.NoError(t, err)
		assert.Equal(t, "original", loaded.Messages[0].Content)

		_ = store.Delete(ctx, thread.ID)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+threadID)
		assert.ErrorIs(t, err, domain.ErrThreadNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, domain.NewThread(threadID))
		require.NoError(t, err)

		err = store.Delete(ctx, threadID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, threadID)
		assert.ErrorIs(t, err, domain.ErrThreadNotFound, "Load after Delete should return ErrThreadNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := threadID + "-1"
		id2 := threadID + "-2"
		_ = store.Save(ctx, domain.NewThread(id1))
		_ = store.Save(ctx, domain.NewThread(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		threads, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, threads, id1)
		assert.Contains(t, threads, id2)
	})
}
