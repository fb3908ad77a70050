package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteProfile creates a temporary profile repository holding the given agent
// document and returns its path. It fails the test immediately on error.
func WriteProfile(t *testing.T, doc string) string {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "agent.md"), []byte(doc), 0644)
	require.NoError(t, err, "Failed to write profile fixture")

	return dir
}
