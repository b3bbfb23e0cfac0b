package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"io"
	"motion-box/pkg/config"
	"motion-box/pkg/effects"
	console_parser "motion-box/pkg/encoder/console-parser"
	render_box "motion-box/pkg/render-box"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const audioExt = ".mp3"

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a cover image and an audio track into a video",
		Long: `Render a cover image and an audio track into a 30fps H.264 video lasting as long as the audio.

Without an audio track, the newest mp3 of the audio directory is used.
With --all, every mp3 of the audio directory is rendered next to it, as <name>.mp4.

Defaults can be set through the OUTPUT_DIR, COVER_ART, OUTPUT_VIDEO, VIDEO_WIDTH and VIDEO_HEIGHT
env variables, or a .env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load()
			if err != nil {
				return err
			}
			cover, _ := cmd.Flags().GetString("cover")
			audio, _ := cmd.Flags().GetString("audio")
			dir, _ := cmd.Flags().GetString("dir")
			output, _ := cmd.Flags().GetString("output")
			all, _ := cmd.Flags().GetBool("all")
			jobs, _ := cmd.Flags().GetInt("jobs")
			normalize, _ := cmd.Flags().GetBool("normalize")

			if cover == "" {
				cover = conf.CoverArt
			}
			if dir == "" {
				dir = conf.OutputDir
			}
			if output == "" {
				output = conf.OutputVideo
			}
			if _, err := os.Stat(cover); err != nil {
				return fmt.Errorf("cover art not found at %s", cover)
			}
			opt := render_box.RenderBoxOptions{Dimensions: conf.Dimensions, NormalizeAudio: normalize}

			if all {
				if audio != "" {
					return fmt.Errorf("--all and --audio are mutually exclusive")
				}
				return renderDir(cmd.Context(), cmd.OutOrStdout(), cover, dir, jobs, opt)
			}
			if audio == "" {
				if audio, err = render_box.FindLatestAudio(dir, audioExt); err != nil {
					return err
				}
			}
			return renderOne(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cover, audio, output, opt)
		},
	}
	cmd.Flags().StringP("cover", "c", "", "Cover image (default $COVER_ART)")
	cmd.Flags().StringP("audio", "a", "", "Audio track (default: the newest mp3 of the audio directory)")
	cmd.Flags().StringP("dir", "d", "", "Audio directory (default $OUTPUT_DIR, or \"output\")")
	cmd.Flags().StringP("output", "o", "", "Rendered video (default $OUTPUT_VIDEO)")
	cmd.Flags().Bool("all", false, "Render every mp3 of the audio directory")
	cmd.Flags().IntP("jobs", "j", 2, "Number of parallel renders with --all")
	cmd.Flags().Bool("normalize", false, "Normalize the audio loudness")
	return cmd
}

// Render a single track, printing what is done along the way
func renderOne(ctx context.Context, out io.Writer, progressOut io.Writer, cover string, audio string, output string, opt render_box.RenderBoxOptions) error {
	params := effects.Compute(effects.DeriveSeed(audio))
	fmt.Fprintln(out, "Creating video with dynamic effects...")
	fmt.Fprintf(out, "  Cover: %s\n", cover)
	fmt.Fprintf(out, "  Audio: %s\n", audio)
	fmt.Fprintf(out, "  Output: %s\n", output)
	fmt.Fprintf(out, "  Effects: %s\n", params)

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}
	err := runRender(ctx, &render_box.RenderRequest{JobId: filepath.Base(output), AudioKey: audio, CoverKey: cover}, output, opt,
		func(p *console_parser.EncodingProgress) {
			fmt.Fprintf(progressOut, "\r  %5.1f%%", p.Percent)
		})
	fmt.Fprintln(progressOut)
	if err != nil {
		return fmt.Errorf("error creating video : %w", err)
	}
	fmt.Fprintf(out, "Successfully created %s\n", output)
	if info, err := os.Stat(output); err == nil {
		fmt.Fprintf(out, "  File size: %.1f MB\n", float64(info.Size())/(1024*1024))
	}
	return nil
}

// Render every track of dir next to it, at most jobs at once
func renderDir(ctx context.Context, out io.Writer, cover string, dir string, jobs int, opt render_box.RenderBoxOptions) error {
	audios, err := render_box.ListAudio(dir, audioExt)
	if err != nil {
		return err
	}
	if len(audios) == 0 {
		return fmt.Errorf("no %s file found in %s", audioExt, dir)
	}
	reqs := make([]*render_box.RenderRequest, 0, len(audios))
	for _, audio := range audios {
		reqs = append(reqs, &render_box.RenderRequest{JobId: videoPath(audio), AudioKey: audio, CoverKey: cover})
	}
	fmt.Fprintf(out, "Rendering %d tracks of %s, %d at a time...\n", len(reqs), dir, jobs)
	// Renders report concurrently
	var mu sync.Mutex
	return render_box.RenderAll(ctx, reqs, jobs, func(ctx context.Context, req *render_box.RenderRequest) error {
		if err := runRender(ctx, req, req.JobId, opt, nil); err != nil {
			return fmt.Errorf("%s : %w", req.AudioKey, err)
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, "  %s -> %s\n", req.AudioKey, req.JobId)
		return nil
	})
}

func runRender(ctx context.Context, req *render_box.RenderRequest, output string, opt render_box.RenderBoxOptions, onProgress func(*console_parser.EncodingProgress)) error {
	rBox := render_box.NewRenderBox(&ctx, nil, &opt)
	go rBox.Render(req, output)
	return rBox.Wait(onProgress)
}

// Where the video of an audio track is rendered with --all
func videoPath(audio string) string {
	return strings.TrimSuffix(audio, filepath.Ext(audio)) + ".mp4"
}
