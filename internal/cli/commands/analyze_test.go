package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"home.pmd": `{
  "id": "home",
  "onLoad": "<% self.refresh(); %>",
  "presentation": { "title": "Home" }
}`,
		"addr.pod":    `{"id": "addr"}`,
		"demo.amd":    `{"id": "demoApp"}`,
		"demo.smd":    `{"id": "demoSite"}`,
		"util.script": "var util = 1;",
		"README.md":   "ignored",
		"backup.pmd":  `{"id": "backup"}`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestCollectFiles(t *testing.T) {
	dir := writeProject(t)

	files, readErrors, err := collectFiles(dir, nil)
	require.NoError(t, err)
	assert.Empty(t, readErrors)
	// README.md is not a definition file.
	assert.Len(t, files, 6)
	assert.Contains(t, files, filepath.Join(dir, "home.pmd"))
	assert.NotContains(t, files, filepath.Join(dir, "README.md"))
}

func TestCollectFilesExclude(t *testing.T) {
	dir := writeProject(t)

	files, _, err := collectFiles(dir, []string{"backup.*"})
	require.NoError(t, err)
	assert.Len(t, files, 5)
	assert.NotContains(t, files, filepath.Join(dir, "backup.pmd"))
}

func TestCollectFilesSingleFile(t *testing.T) {
	dir := writeProject(t)
	path := filepath.Join(dir, "home.pmd")

	files, _, err := collectFiles(path, nil)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files, path)
}

func TestCollectFilesMissingPath(t *testing.T) {
	_, _, err := collectFiles(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}

func TestAnalyzeCommandJSON(t *testing.T) {
	dir := writeProject(t)

	cmd := NewAnalyzeCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{dir, "--format", "json"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var report struct {
		Pages        []string       `json:"pages"`
		Fragments    []string       `json:"fragments"`
		App          string         `json:"app"`
		Site         string         `json:"site"`
		Scripts      []string       `json:"scripts"`
		ScriptFields map[string]int `json:"scriptFields"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))

	assert.Equal(t, []string{"backup", "home"}, report.Pages)
	assert.Equal(t, []string{"addr"}, report.Fragments)
	assert.Equal(t, "demoApp", report.App)
	assert.Equal(t, "demoSite", report.Site)
	assert.Equal(t, []string{"util"}, report.Scripts)
	assert.Equal(t, 1, report.ScriptFields["page:home"])
}

func TestAnalyzeCommandText(t *testing.T) {
	dir := writeProject(t)

	cmd := NewAnalyzeCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "pages")
	assert.Contains(t, out.String(), "2")
}

func TestAnalyzeCommandReportsFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.pmd"), []byte(`{"id": }`), 0o644))

	cmd := NewAnalyzeCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{dir})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 file(s) failed to parse")
	assert.Contains(t, out.String(), "bad.pmd")
}
