package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jscyril/playdeck/internal/config"
)

func TestNewEnricher(t *testing.T) {
	cfg := config.Default()
	assert.Nil(t, newEnricher(cfg), "tags are not read by default")

	cfg.Library.ReadTags = true
	assert.NotNil(t, newEnricher(cfg))
}

func TestApplyFlagsKeepsExplicitMute(t *testing.T) {
	_, err := app.Parse([]string{"--volume", "0"})
	assert.NoError(t, err)
	t.Cleanup(func() {
		volumeSet = false
		*volume = 0
	})

	cfg := config.Default()
	assert.NoError(t, applyFlags(cfg))
	assert.Equal(t, 0.0, cfg.Volume())
}
