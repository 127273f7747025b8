package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfiguration(t *testing.T) {
	t.Run("loads_embedded_defaults", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		cfg, err := LoadConfiguration("")
		require.NoError(t, err)

		assert.Equal(t, "M", cfg.Naming.MaskPrefix)
		assert.Equal(t, "M:", cfg.Naming.MaskRulePrefix())
		assert.Equal(t, "SELECTOR_GROUP", cfg.Naming.SelectorMarker)
		assert.Equal(t, 10, cfg.Layers.Hair)
		assert.Len(t, cfg.FKIK.Sliders, 7)
		assert.Equal(t, []float64{0, 1, 0, 1}, cfg.Physics.ClothColor)
		assert.True(t, cfg.Engine.FollowFrames)
		assert.Equal(t, 4, cfg.Engine.MaxPasses)
	})

	t.Run("user_file_overrides_defaults", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "rigkit"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "rigkit", "config.toml"), []byte(`
[layers]
hair = 20

[naming]
mask_group = "CombinedMask"
`), 0644))

		cfg, err := LoadConfiguration("")
		require.NoError(t, err)

		assert.Equal(t, 20, cfg.Layers.Hair)
		assert.Equal(t, 9, cfg.Layers.Outfit)
		assert.Equal(t, "CombinedMask", cfg.Naming.MaskGroup)
	})

	t.Run("explicit_file_must_exist", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		_, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})

	t.Run("environment_wins", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("RIGKIT_ENGINE__FOLLOW_FRAMES", "false")
		t.Setenv("RIGKIT_OUTPUT__FORMAT", "json")

		cfg, err := LoadConfiguration("")
		require.NoError(t, err)

		assert.False(t, cfg.Engine.FollowFrames)
		assert.Equal(t, "json", cfg.Output.Format)
	})
}

func TestLoadFromMap(t *testing.T) {
	cfg, err := LoadFromMap(map[string]interface{}{
		"engine.max_passes":  0,
		"naming.mask_prefix": "Mask",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Engine.MaxPasses, "max passes is clamped to one")
	assert.Equal(t, "Mask:", cfg.Naming.MaskRulePrefix())
}

func TestNamingHelpers(t *testing.T) {
	n := Default().Naming

	assert.True(t, n.IsReserved("_RNA_UI"))
	assert.True(t, n.IsReserved("prop_hierarchy"))
	assert.False(t, n.IsReserved("Corset"))

	assert.Equal(t, "Skin_Tone", n.StripHidden("_Skin_Tone"))
	assert.Equal(t, "_Tone", n.StripHidden("__Tone"))
	assert.Equal(t, "Tone", n.StripHidden("Tone"))
}
