package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns what it printed
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GHFORECAST_HISTORY_BACKEND", "none")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCatalogListsEntries(t *testing.T) {
	out, err := run(t, "catalog")
	require.NoError(t, err)

	assert.Contains(t, out, "OpenAI cookbook")
	assert.Contains(t, out, "milvus-io/pymilvus")
	assert.Contains(t, out, "Star count of all repos")
	assert.Contains(t, out, "(all repositories)")
}

func TestFetchPrintsJSONVariant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"forksCount": [["repoA", 3], ["repoB", 7]]}`))
	}))
	defer srv.Close()

	out, err := run(t, "fetch", "Fork count of all repos", "--backend-url", srv.URL, "--output", "json")
	require.NoError(t, err)

	assert.Contains(t, out, `"kind": "forks_chart"`)
	assert.Contains(t, out, "Fork count of every repo")
	assert.Contains(t, out, "repoB")
}

func TestFetchFailureIsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	out, err := run(t, "fetch", "pymilvus", "--backend-url", srv.URL, "--output", "text", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Monthly Created Issues for pymilvus in last 1 year")
	assert.Contains(t, out, "no data")
}

func TestFetchUnknownRepository(t *testing.T) {
	_, err := run(t, "fetch", "pymilvis", "--output", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "pymilvus"`)
	assert.Equal(t, 2, ExitCode(err))
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghforecast.toml")

	_, err := run(t, "config", "init", "--path", path, "--force=false")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url")

	_, err = run(t, "config", "init", "--path", path, "--force=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errBinaryToTerminal))
}
