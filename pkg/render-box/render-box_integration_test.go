//go:build integration
// +build integration

package render_box

import (
	"context"
	"fmt"
	"github.com/stretchr/testify/assert"
	"motion-box/pkg/encoder"
	console_parser "motion-box/pkg/encoder/console-parser"
	test_utils "motion-box/test-utils"
	"path/filepath"
	"testing"
	"time"
)

// These tests run the real ffmpeg and ffprobe binaries on local assets

func TestRenderBox_RenderLatestAudio(t *testing.T) {
	test_utils.RequireBinary(t, "ffmpeg")
	dir := t.TempDir()
	cover := test_utils.MakeCover(t, dir)
	test_utils.MakeAudio(t, dir, 1)
	// Generated last, so the newest one
	audio := test_utils.MakeAudio(t, dir, 3)

	latest, err := FindLatestAudio(dir, ".mp3")
	assert.NoError(t, err)
	assert.Equal(t, audio, latest)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	rBox := NewRenderBox(&ctx, nil, &RenderBoxOptions{NormalizeAudio: true})
	out := filepath.Join(dir, "out.mp4")
	go rBox.Render(&RenderRequest{JobId: "int", AudioKey: latest, CoverKey: cover}, out)
	err = rBox.Wait(func(p *console_parser.EncodingProgress) {
		fmt.Printf("%+v\n", p)
	})
	assert.NoError(t, err)
	assert.InDelta(t, 3.0, rBox.Summary.Duration, 0.2)
	assert.InDelta(t, 3.0, encoder.ProbeDuration(out), 0.3)
	// Local assets survive the render
	assert.FileExists(t, cover)
	assert.FileExists(t, audio)
}

func TestRenderBox_RenderAllLocal(t *testing.T) {
	test_utils.RequireBinary(t, "ffmpeg")
	dir := t.TempDir()
	cover := test_utils.MakeCover(t, dir)
	var reqs []*RenderRequest
	for i := 1; i <= 3; i++ {
		reqs = append(reqs, &RenderRequest{JobId: fmt.Sprint(i), AudioKey: test_utils.MakeAudio(t, dir, i), CoverKey: cover})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	err := RenderAll(ctx, reqs, 2, func(ctx context.Context, req *RenderRequest) error {
		rBox := NewRenderBox(&ctx, nil, &RenderBoxOptions{})
		go rBox.Render(req, filepath.Join(dir, req.JobId+".mp4"))
		return rBox.Wait(nil)
	})
	assert.NoError(t, err)
	for _, req := range reqs {
		assert.FileExists(t, filepath.Join(dir, req.JobId+".mp4"))
	}
}
