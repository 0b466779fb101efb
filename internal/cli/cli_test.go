package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaigndash/internal/source"
)

func setupEnv(t *testing.T, sourceKind string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SOURCE", sourceKind)
	t.Setenv("CONFIG_FILE", filepath.Join(dir, "missing.yaml"))
	t.Setenv("FETCH_RETRIES", "0")
	for _, key := range []string{"MS_TENANT_ID", "MS_CLIENT_ID", "MS_CLIENT_SECRET", "GRAPH_USER", "GRAPH_FILE_ID", "OIDC_ISSUER"} {
		t.Setenv(key, "")
	}
	return dir
}

func run(args ...string) error {
	return Run(context.Background(), append([]string{"campaigndash", "--env-file", "", "--log-level", "error"}, args...))
}

func TestExportCSV(t *testing.T) {
	dir := setupEnv(t, "sample")
	out := filepath.Join(dir, "all.csv")

	require.NoError(t, run("export", "--format", "csv", "--out", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "\ufeff"))

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(text, "\ufeff")), "\n")
	require.Len(t, lines, 11)
	assert.True(t, strings.HasPrefix(lines[0], "ID,Campanha,Status"))
}

func TestExportCriticalJSON(t *testing.T) {
	dir := setupEnv(t, "sample")
	out := filepath.Join(dir, "critical.json")

	require.NoError(t, run("export", "--format", "json", "--critical",
		"--column", "ID", "--column", "Prazo (dias)", "--out", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 5)
	for _, r := range records {
		assert.Len(t, r, 2)
		assert.LessOrEqual(t, r["Prazo (dias)"].(float64), 3.0)
	}
}

func TestExportFallsBackToSample(t *testing.T) {
	dir := setupEnv(t, "graph")
	out := filepath.Join(dir, "fallback.csv")

	require.NoError(t, run("export", "--out", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Campanha")
}

func TestExportRejectsBadInput(t *testing.T) {
	setupEnv(t, "sample")

	assert.Error(t, run("export", "--format", "pdf"))
	assert.Error(t, run("export", "--scope", "everything"))
	assert.Error(t, run("export", "--scope", "filtered", "--filter", "no-equals-sign"))
	assert.Error(t, run("export", "--column", "Nope"))
}

func TestCheck(t *testing.T) {
	setupEnv(t, "sample")
	assert.NoError(t, run("check"))

	setupEnv(t, "graph")
	assert.Error(t, run("check"))
}

func TestExportState(t *testing.T) {
	st, err := exportState("  banco ", []string{"Status=Aprovado", "Prioridade=All", " Canal =Email"})
	require.NoError(t, err)
	assert.Equal(t, "  banco ", st.Query)
	assert.Equal(t, map[string]string{"Status": "Aprovado", "Canal": "Email"}, st.Filters)

	_, err = exportState("", []string{"=x"})
	assert.Error(t, err)
}

func TestNewSourceUnavailable(t *testing.T) {
	setupEnv(t, "graph")
	cfg, _, err := loadConfig()
	require.NoError(t, err)

	src := newSource(context.Background(), cfg)
	_, ok := src.(*source.UnavailableSource)
	require.True(t, ok)
	assert.ErrorIs(t, src.Check(context.Background()), source.ErrAuthFailure)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CAMPAIGNDASH_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("CAMPAIGNDASH_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("CAMPAIGNDASH_TEST_VALUE"))

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("CAMPAIGNDASH_TEST_VALUE"))

	assert.NoError(t, loadEnvFile(filepath.Join(dir, "absent.env")))
	assert.NoError(t, loadEnvFile(""))
}
