package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-hypercube/internal/interaction"
)

func TestDefaultsMatchPackageDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, interaction.DefaultTuning(), c.InteractionTuning())
	assert.Equal(t, 60, c.FPS)
}

func TestPartialFileOverridesOnlyWhatItMentions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "fps: 30\ninteraction:\n  scroll_decay_ms: 200\n  scroll_norm: 0.02\nmodulation:\n  morph: 0.9\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, c.FPS)
	assert.Equal(t, 1280, c.Width)

	it := c.InteractionTuning()
	assert.Equal(t, 200*time.Millisecond, it.ScrollDecay)
	assert.Equal(t, 0.02, it.ScrollNorm)
	assert.Equal(t, interaction.DefaultTuning().MoveNorm, it.MoveNorm)

	assert.Equal(t, 0.9, c.ModulationStrengths().Morph)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := Default()
	c.WSAddr = ":8137"
	c.Chroma.HueDriftDegPerSec = 45
	require.NoError(t, Save(path, c))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, back)
	assert.Equal(t, 45.0, back.ChromaTuning().HueDriftDegPerSec)
}
