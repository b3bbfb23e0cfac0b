package encoder

import (
	"context"
	"github.com/stretchr/testify/assert"
	"motion-box/pkg/effects"
	"motion-box/pkg/encoder/filtergraph"
	"strings"
	"testing"
	"time"
)

func videoGraph(t *testing.T) filtergraph.Filter {
	g, err := effects.BuildFilterGraph(effects.Compute(effects.FallbackSeed), effects.DefaultDimensions)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// Find the value following an option in an argument list
func optionValue(args []string, opt string) string {
	for i, a := range args {
		if a == opt && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestPresets_GetCoverAudioEnc(t *testing.T) {
	ctx := context.Background()
	enc, err := GetCoverAudioEnc(&ctx, "cover.png", "song.mp3", videoGraph(t), "out.mp4", CoverAudioOptions{Duration: time.Minute})
	assert.NoError(t, err)
	args := enc.GetArgs()

	assert.Equal(t, []string{"-y", "-loop", "1", "-i", "cover.png", "-i", "song.mp3", "-filter_complex"}, args[:8])
	assert.Equal(t, "out.mp4", args[len(args)-1])
	// The graph is passed as is, as a single argument
	assert.True(t, strings.HasPrefix(args[8], "[0:v]scale=1280:720"))
	assert.True(t, strings.HasSuffix(args[8], "[v]"))

	tail := strings.Join(args[9:], " ")
	assert.Equal(t,
		"-map [v] -map 1:a -c:v libx264 -preset medium -crf 23 -pix_fmt yuv420p -c:a aac -b:a 192k -shortest -r 30 out.mp4",
		tail)
	assert.Equal(t, time.Minute, enc.duration)
}

func TestPresets_GetCoverAudioEnc_Normalized(t *testing.T) {
	ctx := context.Background()
	enc, err := GetCoverAudioEnc(&ctx, "cover.png", "song.mp3", videoGraph(t), "out.mp4", CoverAudioOptions{NormalizeAudio: true})
	assert.NoError(t, err)
	args := enc.GetArgs()
	graph := optionValue(args, "-filter_complex")
	assert.True(t, strings.HasSuffix(graph,
		";[1:a]loudnorm=I=-16:TP=-1.5:LRA=11[norm];[norm]aformat=sample_fmts=fltp:sample_rates=44100:channel_layouts=stereo[a]"))
	assert.Contains(t, strings.Join(args, " "), "-map [v] -map [a]")
}

func TestPresets_GetCoverAudioEnc_NoGraph(t *testing.T) {
	ctx := context.Background()
	_, err := GetCoverAudioEnc(&ctx, "cover.png", "song.mp3", nil, "out.mp4", CoverAudioOptions{})
	assert.Error(t, err)
}

func TestPresets_GetCoverAudioEnc_NoOutput(t *testing.T) {
	ctx := context.Background()
	_, err := GetCoverAudioEnc(&ctx, "cover.png", "song.mp3", videoGraph(t), "", CoverAudioOptions{})
	assert.EqualError(t, err, "no output file Path specified")
}
