package main

import (
	"context"
	"github.com/spf13/cobra"
	"motion-box/pkg/logger"
	"os"
	"os/signal"
	"syscall"
)

// Global logger instance
var log = logger.Build()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "motion-box",
		Short: "Turn a cover image and an audio track into a video with subtle, deterministic motion",
		Long: `motion-box renders a still cover image and an audio track into a video.
The cover slowly vibrates, shakes every few seconds and gets a light color grading.
Every effect is derived from the audio identifier : the same track always renders the same way.

Examples:
  # Render the newest mp3 of ./output with the default cover
  motion-box render

  # Render a given track
  motion-box render -c cover.png -a song.mp3 -o song.mp4

  # Render every mp3 of a directory, 4 at a time
  motion-box render -d ./tracks --all -j 4

  # Show the effects of a track without rendering it
  motion-box effects song.mp3`,
		SilenceUsage: true,
	}
	root.AddCommand(newRenderCmd(), newEffectsCmd(), newServeCmd())
	return root
}

func main() {
	// Cancelling the context kills any running ffmpeg
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
