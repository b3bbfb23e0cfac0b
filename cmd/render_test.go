package main

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"motion-box/pkg/config"
	"motion-box/pkg/effects"
	"motion-box/pkg/encoder"
	test_utils "motion-box/test-utils"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Replace ffmpeg with a script writing "video" into its last argument, the output file
func fakeFFmpeg(t *testing.T) {
	fake := test_utils.WriteFile(t, t.TempDir(), "ffmpeg",
		[]byte("#!/bin/sh\nfor last; do :; done\nprintf video > \"$last\"\n"))
	if err := os.Chmod(fake, 0o755); err != nil {
		t.Fatal(err)
	}
	originalBinary, originalProbe := encoder.Binary, encoder.Probe
	encoder.Binary = fake
	encoder.Probe = func(string) (string, error) {
		return `{"format":{"duration":"10.0"}}`, nil
	}
	t.Cleanup(func() {
		encoder.Binary, encoder.Probe = originalBinary, originalProbe
	})
}

// Run the CLI with args, from a clean env
func runCli(t *testing.T, args ...string) (string, error) {
	for _, env := range []string{config.OUTPUT_DIR, config.COVER_ART, config.OUTPUT_VIDEO, config.VIDEO_WIDTH, config.VIDEO_HEIGHT} {
		t.Setenv(env, "")
	}
	out := bytes.Buffer{}
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRender_LatestAudio(t *testing.T) {
	fakeFFmpeg(t)
	dir := t.TempDir()
	cover := test_utils.WriteFile(t, dir, "cover.png", []byte("cover"))
	old := test_utils.WriteFile(t, dir, "old.mp3", []byte("old"))
	latest := test_utils.WriteFile(t, dir, "latest.mp3", []byte("latest"))
	past := time.Now().Add(-time.Hour)
	assert.NoError(t, os.Chtimes(old, past, past))
	output := filepath.Join(dir, "videos", "out.mp4")

	out, err := runCli(t, "render", "-c", cover, "-d", dir, "-o", output)
	assert.NoError(t, err)
	assert.Contains(t, out, "Audio: "+latest)
	assert.Contains(t, out, effects.Compute(effects.DeriveSeed(latest)).String())
	assert.Contains(t, out, "Successfully created "+output)
	assert.Contains(t, out, "File size: 0.0 MB")
	assert.FileExists(t, output)
}

func TestRender_GivenAudio(t *testing.T) {
	fakeFFmpeg(t)
	dir := t.TempDir()
	cover := test_utils.WriteFile(t, dir, "cover.png", []byte("cover"))
	audio := test_utils.WriteFile(t, dir, "song_2024.mp3", []byte("audio"))
	output := filepath.Join(dir, "out.mp4")

	out, err := runCli(t, "render", "-c", cover, "-a", audio, "-o", output)
	assert.NoError(t, err)
	assert.Contains(t, out, "Audio: "+audio)
	assert.FileExists(t, output)
}

func TestRender_MissingCover(t *testing.T) {
	dir := t.TempDir()
	_, err := runCli(t, "render", "-c", filepath.Join(dir, "nope.png"), "-d", dir)
	assert.ErrorContains(t, err, "cover art not found")
}

func TestRender_NoAudio(t *testing.T) {
	dir := t.TempDir()
	cover := test_utils.WriteFile(t, dir, "cover.png", []byte("cover"))
	_, err := runCli(t, "render", "-c", cover, "-d", dir)
	assert.ErrorContains(t, err, "no .mp3 file found")
}

func TestRender_EncoderFailure(t *testing.T) {
	fakeFFmpeg(t)
	encoder.Binary = "false"
	dir := t.TempDir()
	cover := test_utils.WriteFile(t, dir, "cover.png", []byte("cover"))
	audio := test_utils.WriteFile(t, dir, "song.mp3", []byte("audio"))
	out, err := runCli(t, "render", "-c", cover, "-a", audio, "-o", filepath.Join(dir, "out.mp4"))
	assert.ErrorContains(t, err, "error creating video")
	assert.NotContains(t, out, "Successfully")
}

func TestRender_All(t *testing.T) {
	fakeFFmpeg(t)
	dir := t.TempDir()
	cover := test_utils.WriteFile(t, dir, "cover.png", []byte("cover"))
	for _, name := range []string{"a.mp3", "b.mp3", "c.mp3"} {
		test_utils.WriteFile(t, dir, name, []byte(name))
	}
	out, err := runCli(t, "render", "-c", cover, "-d", dir, "--all", "-j", "2")
	assert.NoError(t, err)
	assert.Contains(t, out, "Rendering 3 tracks")
	for _, name := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestRender_AllWithAudio(t *testing.T) {
	dir := t.TempDir()
	cover := test_utils.WriteFile(t, dir, "cover.png", []byte("cover"))
	_, err := runCli(t, "render", "-c", cover, "-a", "song.mp3", "--all")
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestVideoPath(t *testing.T) {
	assert.Equal(t, "output/song.mp4", videoPath("output/song.mp3"))
	assert.Equal(t, "song.v2.mp4", videoPath("song.v2.MP3"))
}
