package cmd

import (
	"testing"
	"time"

	"github.com/brogergvhs/dmzjdl/internal/config"
	"github.com/brogergvhs/dmzjdl/internal/ui"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("retry-backoff", "")
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = parseDuration("retry-backoff", "750ms")
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, d)

	_, err = parseDuration("fetch-timeout", "-1s")
	assert.ErrorContains(t, err, "--fetch-timeout")

	_, err = parseDuration("fetch-timeout", "soon")
	assert.Error(t, err)
}

func TestExtraChooser_Fixed(t *testing.T) {
	p := ui.NewPrompter("en")

	yes, err := extraChooser(config.ExtraYes, p)(t.Context(), 2)
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := extraChooser(config.ExtraNo, p)(t.Context(), 2)
	require.NoError(t, err)
	assert.False(t, no)
}

func TestNewEngine_Static(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Engine = config.EngineStatic

	e, err := newEngine(cfg, ui.NewLogger(false))
	require.NoError(t, err)
	assert.NoError(t, e.Close())

	cfg.Engine = "lynx"
	_, err = newEngine(cfg, ui.NewLogger(false))
	assert.Error(t, err)
}
