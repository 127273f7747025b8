package topics

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"visibility.md":    {Data: []byte("# Visibility\n\nMatch keys")},
		"dry-run.txt":      {Data: []byte("Information about dry-run mode")},
		"option-format.md": {Data: []byte("# --format")},
		"notes.txxt":       {Data: []byte("custom")},
		"ignore.json":      {Data: []byte("{}")},
		"nested/deep.md":   {Data: []byte("deep topic")},
	}
}

func TestNewScansTopics(t *testing.T) {
	t.Run("default extensions", func(t *testing.T) {
		m, err := New(testFS(), Options{})
		require.NoError(t, err)

		tests := []struct {
			name    string
			exists  bool
			content string
		}{
			{"visibility", true, "# Visibility\n\nMatch keys"},
			{"dry-run", true, "Information about dry-run mode"},
			{"deep", true, "deep topic"},
			{"notes", false, ""},
			{"ignore", false, ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				topic, ok := m.Get(tt.name)
				assert.Equal(t, tt.exists, ok)
				if ok {
					assert.Equal(t, tt.content, topic.Content)
				}
			})
		}
	})

	t.Run("custom extensions", func(t *testing.T) {
		m, err := New(testFS(), Options{Extensions: []string{".txxt"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"notes"}, m.List())
	})
}

func TestGetOptionTopics(t *testing.T) {
	m, err := New(testFS(), Options{})
	require.NoError(t, err)

	for _, name := range []string{"--format", "-format", "format", "option-format"} {
		topic, ok := m.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, "option-format", topic.Name)
	}
}

func TestWriteIndex(t *testing.T) {
	m, err := New(testFS(), Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	m.WriteIndex(&buf, "rigkit")
	out := buf.String()
	assert.Contains(t, out, "General topics:\n  deep\n  dry-run\n  visibility\n")
	assert.Contains(t, out, "Option topics:\n  --format\n")
	assert.Contains(t, out, "'rigkit help <topic>'")

	empty, err := New(fstest.MapFS{}, Options{})
	require.NoError(t, err)
	buf.Reset()
	empty.WriteIndex(&buf, "rigkit")
	assert.Equal(t, "No help topics available.\n", buf.String())
}

func TestInstall(t *testing.T) {
	m, err := New(testFS(), Options{})
	require.NoError(t, err)

	run := func(args ...string) string {
		root := &cobra.Command{Use: "rigkit", Short: "rig tool"}
		root.AddCommand(&cobra.Command{Use: "status", Short: "Show rig status", Run: func(*cobra.Command, []string) {}})
		m.Install(root)
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetErr(&buf)
		root.SetArgs(args)
		require.NoError(t, root.Execute())
		return buf.String()
	}

	assert.Contains(t, run("help", "topics"), "Available help topics:")
	assert.Equal(t, "Information about dry-run mode", run("help", "dry-run"))
	assert.Equal(t, "# --format", run("help", "--format"))
	assert.Contains(t, run("help", "status"), "Show rig status")
}

func TestEmbeddedGuide(t *testing.T) {
	m, err := New(Guide(), Options{})
	require.NoError(t, err)

	for _, name := range []string{"visibility", "properties", "materials", "scene-documents", "option-format"} {
		topic, ok := m.Get(name)
		require.True(t, ok, name)
		assert.True(t, strings.HasPrefix(topic.Content, "# "), name)
	}
}

func TestGlamourRenderer(t *testing.T) {
	r := &GlamourRenderer{Style: "notty", Width: 60}
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
	assert.Contains(t, r.Render("# Title\n\nbody", ".md"), "Title")
}
