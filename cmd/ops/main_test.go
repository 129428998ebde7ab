package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SMTD_CONFIG", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("GEMINI_API_KEY", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRolloverExportImport(t *testing.T) {
	dataDir := t.TempDir()

	out, err := runCmd(t, "rollover", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, `"todayDate"`)

	exported := filepath.Join(t.TempDir(), "state.json")
	_, err = runCmd(t, "export", "--data-dir", dataDir, "--out", exported)
	require.NoError(t, err)

	doc := `{"tasks":[{"id":"t1","title":"読書"}],"navigatorMode":"B"}`
	in := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(in, []byte(doc), 0o644))
	out, err = runCmd(t, "import", "--data-dir", dataDir, "--in", in)
	require.NoError(t, err)
	assert.Equal(t, "imported 1 tasks, 0 black hole items\n", out)

	out, err = runCmd(t, "export", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, `"navigatorMode": "B"`)
	assert.Contains(t, out, "読書")
}

func TestBackupAndDrill(t *testing.T) {
	dataDir := t.TempDir()
	_, err := runCmd(t, "rollover", "--data-dir", dataDir)
	require.NoError(t, err)

	archive := filepath.Join(t.TempDir(), "b.tar.gz")
	out, err := runCmd(t, "backup", "--data-dir", dataDir, "--out", archive)
	require.NoError(t, err)
	assert.Equal(t, archive, strings.TrimSpace(out))

	target := filepath.Join(t.TempDir(), "restored")
	_, err = runCmd(t, "restore", "--archive", archive, "--target-dir", target)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(target, "smtd-storage.json"))

	out, err = runCmd(t, "drill", "--data-dir", dataDir, "--work-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "digest:")
}

func TestNotifyDryRun(t *testing.T) {
	out, err := runCmd(t, "notify", "evening", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "fallback"`)

	_, err = runCmd(t, "notify", "night")
	assert.Error(t, err)
}

func TestImportRequiresInput(t *testing.T) {
	_, err := runCmd(t, "import", "--data-dir", t.TempDir())
	assert.Error(t, err)
}
