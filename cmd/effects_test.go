package main

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"motion-box/pkg/effects"
	"testing"
)

func TestEffects_Text(t *testing.T) {
	out, err := runCli(t, "effects", "song_2024.mp3")
	assert.NoError(t, err)
	assert.Contains(t, out, "Seed:       3900633952")
	assert.Contains(t, out, "Vibration (intensity=0.7px, freq=4.20Hz)")
	assert.Contains(t, out, "Padding:    5px")
	assert.Contains(t, out, "[0:v]scale=1280:720:force_original_aspect_ratio=decrease[scaled]")
}

func TestEffects_Json(t *testing.T) {
	out, err := runCli(t, "effects", "--json", "song_2024.mp3")
	assert.NoError(t, err)
	var report effectsReport
	assert.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, uint32(3900633952), report.Seed)
	assert.Equal(t, effects.Compute(3900633952), report.Parameters)
	assert.Contains(t, report.Graph, "scale=1280:720")
}

func TestEffects_MissingIdentifier(t *testing.T) {
	_, err := runCli(t, "effects")
	assert.Error(t, err)
}
