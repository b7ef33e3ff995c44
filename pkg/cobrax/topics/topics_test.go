package topics

import (
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"docs/topics/solo-mode.md":  {Data: []byte("# Solo mode\n\nLocal resolution.\n")},
		"docs/topics/dry-run.txt":   {Data: []byte("Dry run skips remote calls.\n")},
		"docs/topics/ignored.yaml":  {Data: []byte("skipped: true\n")},
		"docs/topics/sub/nested.md": {Data: []byte("# Nested\n")},
	}
}

func TestLoad(t *testing.T) {
	m, err := Load(testFS(), "docs/topics", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"dry-run", "nested", "solo-mode"}, m.Names())

	topic, ok := m.Get("solo-mode")
	require.True(t, ok)
	assert.Equal(t, ".md", topic.Ext)
	assert.Contains(t, topic.Content, "Local resolution")

	_, ok = m.Get("ignored")
	assert.False(t, ok, "non-md/txt files are not topics")
}

func TestGetStripsFlagPrefix(t *testing.T) {
	m, err := Load(testFS(), "docs/topics", nil)
	require.NoError(t, err)

	topic, ok := m.Get("--dry-run")
	require.True(t, ok)
	assert.Equal(t, "dry-run", topic.Name)
}

func TestInstallReplacesHelpCommand(t *testing.T) {
	m, err := Load(testFS(), "docs/topics", &PlainRenderer{})
	require.NoError(t, err)

	root := &cobra.Command{Use: "databag"}
	root.AddCommand(&cobra.Command{Use: "list", Run: func(*cobra.Command, []string) {}})
	m.Install(root)

	var helpCmd *cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Name() == "help" {
			helpCmd = cmd
		}
	}
	require.NotNil(t, helpCmd)

	completions, _ := helpCmd.ValidArgsFunction(helpCmd, nil, "")
	assert.Contains(t, completions, "topics")
	assert.Contains(t, completions, "list")
	assert.Contains(t, completions, "solo-mode")
}

func TestPlainRenderer(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "# raw", r.Render("# raw", ".md"))
}

func TestGlamourRendererPassesThroughText(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
}
