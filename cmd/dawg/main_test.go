package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
	return filename
}

func TestReadWords(t *testing.T) {
	words, err := readWords(strings.NewReader("cat\r\n\ndog\nbird\n\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "bird"}, words)

	words, err = readWords(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestBuildAndQuery(t *testing.T) {
	output := filepath.Join(t.TempDir(), "words.dawg")
	remove := writeFile(t, "remove.txt", "motion\nmissing\n")

	_, err := execute(t, "potion\nlotion\nmotion\nmot\nnation\n",
		"build", "--output", output, "--remove", remove)
	require.NoError(t, err)

	out, err := execute(t, "", "query", "--dawg", output, "lotion", "motion", "nation")
	require.NoError(t, err)
	assert.Equal(t, "lotion\ttrue\nmotion\tfalse\nnation\ttrue\n", out)

	out, err = execute(t, "", "query", "-d", output, "--suffix", "otion")
	require.NoError(t, err)
	assert.Equal(t, "lotion\npotion\n", out)

	out, err = execute(t, "", "query", "-d", output, "--prefix", "mo", "po")
	require.NoError(t, err)
	assert.Equal(t, "mot\npotion\n", out)

	out, err = execute(t, "", "query", "-d", output, "--longest", "motions")
	require.NoError(t, err)
	assert.Equal(t, "motions\tmot\n", out)

	out, err = execute(t, "", "query", "-d", output, "--index", "nation", "motion")
	require.NoError(t, err)
	assert.Equal(t, "nation\t2\nmotion\t-1\n", out)
}

func TestStats(t *testing.T) {
	input := writeFile(t, "words.txt", "hello\njello\n")
	output := filepath.Join(t.TempDir(), "words.dawg")
	_, err := execute(t, "", "build", "-i", input, "-o", output)
	require.NoError(t, err)

	out, err := execute(t, "", "stats", "--dawg", output)
	require.NoError(t, err)

	var stats fileStats
	require.NoError(t, yaml.Unmarshal([]byte(out), &stats))
	assert.Equal(t, output, stats.File)
	assert.Positive(t, stats.Bytes)
	assert.Equal(t, 2, stats.Words)
	assert.Equal(t, 6, stats.Nodes)
	assert.Equal(t, 6, stats.Edges)
}

func TestDump(t *testing.T) {
	output := filepath.Join(t.TempDir(), "words.dawg")
	_, err := execute(t, "ab\ncb\n", "build", "-o", output)
	require.NoError(t, err)

	out, err := execute(t, "", "dump", "-d", output)
	require.NoError(t, err)
	assert.Contains(t, out, "WordCount=2")
	assert.Contains(t, out, "NodeCount=3")
	assert.Contains(t, out, "Node 0 final=0 has 2 edges")
}

func TestStrictBuildRejectsUnsortedInput(t *testing.T) {
	output := filepath.Join(t.TempDir(), "words.dawg")
	_, err := execute(t, "b\na\n", "build", "--strict", "-o", output)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestSettingsFromEnvironment(t *testing.T) {
	output := filepath.Join(t.TempDir(), "words.dawg")
	_, err := execute(t, "one\ntwo\n", "build", "-o", output)
	require.NoError(t, err)

	t.Setenv("DAWG_DAWG", output)
	out, err := execute(t, "", "query", "two")
	require.NoError(t, err)
	assert.Equal(t, "two\ttrue\n", out)
}

func TestMissingRequiredSetting(t *testing.T) {
	_, err := execute(t, "", "stats")
	require.EqualError(t, err, "--dawg is required")
}
