package styles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedStyles(t *testing.T) {
	expected := []string{
		"Header", "Section", "Key", "Value",
		"Visible", "Hidden", "On", "Off",
		"Warning", "Error", "Info", "Muted", "Indent",
	}
	for _, name := range expected {
		t.Run(name, func(t *testing.T) {
			assert.True(t, Has(name), "style %s should be defined", name)
		})
	}
}

func TestGetStyle(t *testing.T) {
	assert.True(t, GetStyle("On").GetBold())
	assert.False(t, GetStyle("NoSuchStyle").GetBold())
	assert.Equal(t, 22, GetStyle("Key").GetWidth())
}

func TestParseRejectsUnknownColors(t *testing.T) {
	t.Cleanup(Reset)
	err := Parse([]byte("styles:\n  On:\n    foreground: chartreuse\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chartreuse")
	assert.True(t, Has("On"), "a failed parse keeps the previous sheet")
}

func TestLoadStyles(t *testing.T) {
	t.Cleanup(Reset)
	path := filepath.Join(t.TempDir(), "styles.yaml")
	sheet := "colors:\n  pink:\n    light: \"#ff00ff\"\n    dark: \"#ff88ff\"\nstyles:\n  On:\n    italic: true\n    foreground: pink\n"
	require.NoError(t, os.WriteFile(path, []byte(sheet), 0644))

	require.NoError(t, LoadStyles(path))
	assert.True(t, GetStyle("On").GetItalic())
	assert.False(t, Has("Header"))

	Reset()
	assert.True(t, Has("Header"))
}

func TestLoadStylesMissingFile(t *testing.T) {
	err := LoadStyles(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
