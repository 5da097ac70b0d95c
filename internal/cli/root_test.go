package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytest-go/tinytest/internal/demo"
	"github.com/tinytest-go/tinytest/internal/journal"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "tinytest", cmd.Use)
	assert.Contains(t, cmd.Long, "Exit codes")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	sub, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "history", sub.Name())
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	journalFlag := cmd.PersistentFlags().Lookup("journal")
	require.NotNil(t, journalFlag)
	assert.Equal(t, "", journalFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
}

func TestRunFlags(t *testing.T) {
	cmd := NewRootCommand()

	colorFlag := cmd.Flags().Lookup("color")
	require.NotNil(t, colorFlag)
	assert.Equal(t, "auto", colorFlag.DefValue)

	locationsFlag := cmd.Flags().Lookup("locations")
	require.NotNil(t, locationsFlag)
	assert.Equal(t, "true", locationsFlag.DefValue)

	filterFlag := cmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestRun_SuiteFailuresExitOne(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--color", "never"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "groups failed")

	out := buf.String()
	assert.Contains(t, out, "Running group \"test group 1\"")
	assert.Contains(t, out, "caught error: this is expected")
	assert.Contains(t, out, "Running group \"third group\"")
	assert.Contains(t, out, "Running group \"journal store\"")
}

func TestRun_FilterSelectsGroups(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--color", "never", "--filter", "third*"})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Running group \"third group\"")
	assert.NotContains(t, out, "Running group \"string tests\"")
}

func TestRun_FilterWithoutMatchesIsCommandError(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--filter", "nonexistent*"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no groups match")
}

func TestRun_MalformedFilterIsCommandError(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--filter", "["})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid filter")
}

func TestRun_InvalidColorFlagIsCommandError(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--color", "sometimes"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid color mode")
}

func TestRun_UnknownFlagIsCommandError(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--no-such-flag"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_ConfigFileApplied(t *testing.T) {
	dir := t.TempDir()
	journalPath := filepath.Join(dir, "runs.db")
	configPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("color: never\nfilter: \"third*\"\njournal: %q\n", journalPath)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--config", configPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Running group \"third group\"")

	_, err := os.Stat(journalPath)
	assert.NoError(t, err, "journal should be created at the configured path")
}

func TestRun_FlagsOverrideConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("filter: \"third*\"\n"), 0644))

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--config", configPath, "--color", "never", "--filter", "journal*"})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Running group \"journal store\"")
	assert.NotContains(t, out, "third group")
}

func TestRun_InvalidConfigIsCommandError(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("color: sometimes\n"), 0644))

	cmd := NewRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", configPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "config")
}

func TestRun_MissingConfigFileIsCommandError(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_VerboseLogsToStderrOnly(t *testing.T) {
	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{"--color", "never", "--filter", "third*", "--verbose"})

	require.NoError(t, cmd.Execute())

	logs := errBuf.String()
	assert.Contains(t, logs, "suite starting")
	assert.Contains(t, logs, "run_id=")
	assert.NotContains(t, outBuf.String(), "run_id=", "logs stay out of the report stream")
}

func TestRun_JournaledGroupsShareOneRunID(t *testing.T) {
	journalPath := filepath.Join(t.TempDir(), "runs.db")
	runJournaledSuite(t, journalPath)

	jnl, err := journal.Open(journalPath)
	require.NoError(t, err)
	defer jnl.Close()

	records, err := jnl.Runs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 4, "one record per executed group")

	runID, err := uuid.Parse(records[0].RunID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), runID.Version())
	for _, rec := range records {
		assert.Equal(t, records[0].RunID, rec.RunID)
	}
}

func TestRun_SeparateRunsMintDistinctRunIDs(t *testing.T) {
	journalPath := filepath.Join(t.TempDir(), "runs.db")
	runJournaledSuite(t, journalPath, "--filter", "third*")
	runJournaledSuite(t, journalPath, "--filter", "third*")

	jnl, err := journal.Open(journalPath)
	require.NoError(t, err)
	defer jnl.Close()

	records, err := jnl.Runs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.NotEqual(t, records[0].RunID, records[1].RunID)
}

func TestRootHelpText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Exit codes")
	assert.Contains(t, out, "--filter")
	assert.Contains(t, out, "--journal")
	assert.Contains(t, out, "fail on purpose")
}

func TestSelectGroups(t *testing.T) {
	groups := demo.Groups()

	all, err := selectGroups(groups, "")
	require.NoError(t, err)
	assert.Len(t, all, len(groups))

	matched, err := selectGroups(groups, "*group*")
	require.NoError(t, err)
	var names []string
	for _, g := range matched {
		names = append(names, g.Name())
	}
	assert.Equal(t, []string{"test group 1", "third group"}, names)

	_, err = selectGroups(groups, "[")
	require.Error(t, err)
}
