package main

import (
	"encoding/json"
	"fmt"
	"github.com/spf13/cobra"
	"motion-box/pkg/config"
	"motion-box/pkg/effects"
)

// What the effects command prints
type effectsReport struct {
	Identifier string             `json:"identifier"`
	Seed       uint32             `json:"seed"`
	Parameters effects.Parameters `json:"parameters"`
	Graph      string             `json:"graph"`
}

func newEffectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "effects <identifier>",
		Short: "Print the effects and the filter graph an identifier renders with",
		Long: `Print the seed, the effect parameters and the ffmpeg filter graph derived from an identifier,
without rendering anything. The identifier is the audio path as given to "render".

Example:
  motion-box effects output/song.mp3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load()
			if err != nil {
				return err
			}
			asJson, _ := cmd.Flags().GetBool("json")

			report := effectsReport{Identifier: args[0], Seed: effects.DeriveSeed(args[0])}
			report.Parameters = effects.Compute(report.Seed)
			report.Graph, err = effects.FilterGraph(report.Parameters, conf.Dimensions)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJson {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			fmt.Fprintf(out, "Identifier: %s\n", report.Identifier)
			fmt.Fprintf(out, "Seed:       %d\n", report.Seed)
			fmt.Fprintf(out, "Effects:    %s\n", report.Parameters)
			fmt.Fprintf(out, "Padding:    %dpx\n", report.Parameters.TotalPadding)
			fmt.Fprintf(out, "Graph:      %s\n", report.Graph)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the report as JSON")
	return cmd
}
