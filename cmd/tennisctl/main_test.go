package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
postgres:
  dsn: memory
provider:
  graphql_url: http://127.0.0.1:1/graphql
`), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", writeConfig(t)}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestJobs(t *testing.T) {
	out, err := execute(t, "jobs")
	require.NoError(t, err)
	assert.Contains(t, out, "dual-matches\n")
	assert.Contains(t, out, "reconcile-null-teams\n")
}

func TestReconcile_DryRunByDefault(t *testing.T) {
	out, err := execute(t, "reconcile", "abbreviations")
	require.NoError(t, err)

	var body struct {
		Job    string `json:"job"`
		DryRun bool   `json:"dry_run"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "abbreviations", body.Job)
	assert.True(t, body.DryRun)
}

func TestReconcile_UnknownJob(t *testing.T) {
	_, err := execute(t, "reconcile", "nope")
	assert.Error(t, err)
}

func TestSync_UnknownJob(t *testing.T) {
	_, err := execute(t, "sync", "nope")
	assert.Error(t, err)
}
