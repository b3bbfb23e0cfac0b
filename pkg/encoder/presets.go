package encoder

import (
	"context"
	"fmt"
	"motion-box/pkg/encoder/filtergraph"
	"time"
)

const (
	// Output frame rate
	FrameRate = "30"
	// Audio bitrate
	AudioBitrate = "192k"
	// Label of the normalized audio stream
	normalizedAudioLabel = "a"
	audioStream          = "1:a"
)

// CoverAudioOptions Behaviour options of the cover/audio preset
type CoverAudioOptions struct {
	// Run the audio through a loudness normalization before encoding it
	NormalizeAudio bool
	// Expected duration of the output, zero if unknown
	Duration time.Duration
}

// GetCoverAudioEnc Return an initialized encoder turning a still cover image and an audio track
// into a video. The cover is looped and goes through videoGraph. The video ends with the audio
func GetCoverAudioEnc(ctx *context.Context, coverPath string, audioPath string, videoGraph filtergraph.Filter, output string, opt CoverAudioOptions) (*Encoder, error) {
	if videoGraph == nil {
		return nil, fmt.Errorf("no video filter graph specified")
	}
	builder := Builder{}
	// Overwrite any previous render
	builder.AddGlobalOption("-y")
	// video track : the cover, repeated forever
	builder.AddInput(&FileInput{Path: coverPath, Options: []string{"-loop", "1"}})
	// audio track
	builder.AddInput(&FileInput{Path: audioPath})

	graphs := []filtergraph.Filter{videoGraph}
	audioMap := audioStream
	if opt.NormalizeAudio {
		// Normalize...
		var audioRoot filtergraph.Filter = filtergraph.NewInput(audioStream)
		audioRoot = filtergraph.NewAudioNormalizationFilter(audioRoot, "norm")
		// ... and resample the resulting audio
		audioRoot = filtergraph.NewAudioResampleFilter(audioRoot, normalizedAudioLabel, filtergraph.K44)
		graphs = append(graphs, audioRoot)
		audioMap = fmt.Sprintf("[%s]", audioRoot.Id())
	}
	builder.SetFilterGraph(graphs...)

	// Map the output -> Take the video from the filter graph and the audio from the audio track
	builder.
		AddOutputOption("-map", fmt.Sprintf("[%s]", videoGraph.Id())).
		AddOutputOption("-map", audioMap)

	// Add general options
	builder.
		// Set the codec to be used
		AddOutputOption("-c:v", "libx264").
		AddOutputOption("-preset", "medium").
		AddOutputOption("-crf", "23").
		// Set the pixel space
		AddOutputOption("-pix_fmt", "yuv420p").
		AddOutputOption("-c:a", "aac").
		AddOutputOption("-b:a", AudioBitrate).
		// And end the video at the shortest input (the audio)
		AddOutputOption("-shortest").
		AddOutputOption("-r", FrameRate)

	// Set the output of the encoder
	builder.SetOutput(output).SetDuration(opt.Duration)

	return builder.Build(ctx)
}
