package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settlerec/settlerec/internal/bench"
)

func TestBenchCommand_SingleScenario(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bench.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewBenchCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"micro", "--db", dbPath, "--iterations", "1"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Running benchmark: micro")
	assert.Contains(t, output, "throughput=")
	// Single scenario, no comparative table.
	assert.NotContains(t, output, "Comparative Results")

	store, err := bench.OpenResultStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.LatestRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "micro", runs[0].Scenario)
	assert.Len(t, runs[0].Metrics, 1)
}

func TestBenchCommand_UnknownScenario(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bench.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewBenchCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"gigantic", "--db", dbPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unknown scenario")
}

func TestReportCommand_NoResults(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bench.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReportCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no benchmark results found")
}

func TestReportCommand_AfterBench(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bench.db")

	rootOpts := &RootOptions{Format: "text"}
	benchCmd := NewBenchCommand(rootOpts)
	benchCmd.SetOut(&bytes.Buffer{})
	benchCmd.SetArgs([]string{"micro", "--db", dbPath, "--iterations", "2"})
	require.NoError(t, benchCmd.Execute())

	buf := &bytes.Buffer{}
	reportCmd := NewReportCommand(rootOpts)
	reportCmd.SetOut(buf)
	reportCmd.SetArgs([]string{"--db", dbPath})
	require.NoError(t, reportCmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "# Settlement Reconciliation - Performance Report")
	assert.Contains(t, output, "micro")
}

func TestReportCommand_WritesToFile(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "bench.db")
	outPath := filepath.Join(tmpDir, "report.md")

	rootOpts := &RootOptions{Format: "text"}
	benchCmd := NewBenchCommand(rootOpts)
	benchCmd.SetOut(&bytes.Buffer{})
	benchCmd.SetArgs([]string{"micro", "--db", dbPath, "--iterations", "1"})
	require.NoError(t, benchCmd.Execute())

	reportCmd := NewReportCommand(rootOpts)
	reportCmd.SetOut(&bytes.Buffer{})
	reportCmd.SetArgs([]string{"--db", dbPath, "--output", outPath})
	require.NoError(t, reportCmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Performance Overview")
}
