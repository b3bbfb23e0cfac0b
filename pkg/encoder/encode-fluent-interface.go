package encoder

import (
	"context"
	"fmt"
	"motion-box/pkg/encoder/filtergraph"
	"strings"
	"time"
)

type Builder struct {
	// All "-i" inputs
	inputs []*FileInput
	// All general options, placed before the inputs
	globalOptions []string
	// All options on the output file
	outputOptions []string
	// Output file name
	output string
	// Roots of the filter graphs to be used, one per output stream
	filterGraphs []filtergraph.Filter
	// Expected duration of the output, used to compute the progress
	duration time.Duration
}

// AddGlobalOption Add a new option applying to the whole command (-y, -hide_banner...)
func (eb *Builder) AddGlobalOption(opt ...string) *Builder {
	eb.globalOptions = append(eb.globalOptions, opt...)
	return eb
}

// AddInput Add a new input to the encoder
func (eb *Builder) AddInput(input *FileInput) *Builder {
	eb.inputs = append(eb.inputs, input)
	return eb
}

// AddOutputOption Add a new output option to the encoder. An option and its value
// are passed separately : AddOutputOption("-c:v", "libx264")
func (eb *Builder) AddOutputOption(opt ...string) *Builder {
	eb.outputOptions = append(eb.outputOptions, opt...)
	return eb
}

// SetOutput Set the result file Path
func (eb *Builder) SetOutput(path string) *Builder {
	eb.output = path
	return eb
}

// SetFilterGraph Set the complex filters to be used. Each root is an independent chain
func (eb *Builder) SetFilterGraph(graphs ...filtergraph.Filter) *Builder {
	eb.filterGraphs = graphs
	return eb
}

// SetDuration Set the expected output duration
func (eb *Builder) SetDuration(d time.Duration) *Builder {
	eb.duration = d
	return eb
}

// Collapses the whole builder into ffmpeg arguments
func (eb *Builder) getFFmpegArgs() ([]string, error) {
	// [globalOptions] (-i [inputs])* [filters] [outputOptions] [output_name]
	args := append([]string{}, eb.globalOptions...)

	// Inputs
	for _, input := range eb.inputs {
		args = append(args, input.Args()...)
	}

	// Filters
	if len(eb.filterGraphs) > 0 {
		chains := make([]string, 0, len(eb.filterGraphs))
		for _, g := range eb.filterGraphs {
			chain, err := filtergraph.Compile(g)
			if err != nil {
				return nil, err
			}
			chains = append(chains, chain)
		}
		// The graph is a single argument, no shell quoting needed
		args = append(args, "-filter_complex", strings.Join(chains, ";"))
	}

	// Output options
	args = append(args, eb.outputOptions...)

	// Output name
	return append(args, eb.output), nil
}

// Build Return a new initialized encoder ready to be started
func (eb *Builder) Build(ctx *context.Context) (*Encoder, error) {
	if len(eb.inputs) == 0 {
		return nil, fmt.Errorf("no inputs specified")
	}
	if eb.output == "" {
		return nil, fmt.Errorf("no output file Path specified")
	}
	args, err := eb.getFFmpegArgs()
	if err != nil {
		return nil, fmt.Errorf("cannot compile filter graph : %w", err)
	}
	return NewEncoder(ctx, args, eb.duration), nil
}

// FileInput Any valid -i input
type FileInput struct {
	// Path to file in the filesystem
	Path string
	// Format of the Path to input
	Format string
	// Specific options to be applied to this input
	Options []string
}

// Args Convert the input into FFMPEG arguments
func (ei *FileInput) Args() []string {
	args := append([]string{}, ei.Options...)
	// Only specify Format if explicitly specified
	if ei.Format != "" {
		args = append(args, "-f", ei.Format)
	}
	return append(args, "-i", ei.Path)
}

// Convert the input into a FFMPEG compatible cmd, for display purposes
func (ei *FileInput) String() string {
	return strings.Join(ei.Args(), " ")
}
