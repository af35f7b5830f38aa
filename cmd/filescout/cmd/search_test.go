package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/filescout/internal/query"
)

// fixtureRoot creates a small directory tree and isolates the user
// config so only defaults apply.
func fixtureRoot(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".hidden"), 0o755))
	writeFixture(t, filepath.Join(root, "notes.md"), "alpha beta gamma\n")
	writeFixture(t, filepath.Join(root, "src", "main.go"), "package main\n")
	writeFixture(t, filepath.Join(root, "src", "util.go"), "package main\n")
	writeFixture(t, filepath.Join(root, ".hidden", "secret.txt"), "shh\n")
	return root
}

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSearchCmd_ExtFilter(t *testing.T) {
	// Given: an indexed fixture tree
	root := fixtureRoot(t)
	cmd, buf := newTestRoot(t)
	cmd.SetArgs([]string{"--root", root, "--no-color", "search", "ext:md"})

	// When: searching by extension
	err := cmd.Execute()

	// Then: only the markdown file should match
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "notes.md")
	assert.NotContains(t, output, "main.go")
	assert.Contains(t, output, "1 results")
}

func TestSearchCmd_ContentJSON(t *testing.T) {
	// Given: an indexed fixture tree
	root := fixtureRoot(t)
	cmd, buf := newTestRoot(t)
	cmd.SetArgs([]string{"--root", root, "--json", "search", "content:ALPHA"})

	// When: searching file contents with JSON output
	err := cmd.Execute()

	// Then: the result decodes and names the matching file
	require.NoError(t, err)
	var res query.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res), "Output should be valid JSON")
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "notes.md", res.Entries[0].Name)
	assert.Contains(t, res.HighlightTerms, "alpha")
}

func TestSearchCmd_HiddenFlag(t *testing.T) {
	// Given: a tree with a hidden directory
	root := fixtureRoot(t)

	// When: searching without --hidden
	cmd, buf := newTestRoot(t)
	cmd.SetArgs([]string{"--root", root, "search", "file:secret.txt"})
	require.NoError(t, cmd.Execute())

	// Then: hidden entries are excluded
	assert.Contains(t, buf.String(), "0 results")

	// When: searching with --hidden
	cmd, buf = newTestRoot(t)
	cmd.SetArgs([]string{"--root", root, "search", "--hidden", "file:secret.txt"})
	require.NoError(t, cmd.Execute())

	// Then: the hidden file is found
	assert.Contains(t, buf.String(), "secret.txt")
	assert.Contains(t, buf.String(), "1 results")
}

func TestSearchCmd_MaxResultsTruncates(t *testing.T) {
	// Given: more matching files than the cap
	root := fixtureRoot(t)
	cmd, buf := newTestRoot(t)
	cmd.SetArgs([]string{"--root", root, "search", "--max-results", "1", "type:file"})

	// When: searching with --max-results 1
	err := cmd.Execute()

	// Then: the summary should flag truncation
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "truncated")
}

func TestSearchCmd_InvalidQuery(t *testing.T) {
	// Given: a query with a malformed size predicate
	root := fixtureRoot(t)
	cmd, _ := newTestRoot(t)
	cmd.SetArgs([]string{"--root", root, "search", "size:nonsense"})

	// When: executing
	err := cmd.Execute()

	// Then: it should surface a parse error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonsense")
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	// Given: a search command with no arguments
	cmd, _ := newTestRoot(t)
	cmd.SetArgs([]string{"search"})

	// When: executing
	err := cmd.Execute()

	// Then: cobra should reject the missing argument
	require.Error(t, err)
}
