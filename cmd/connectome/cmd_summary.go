package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"connectome/pkg/connectome"
	"connectome/pkg/graphio"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <graph-file>",
		Short: "Print size, density and leading eigenvalues of a saved graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			modality, _ := cmd.Flags().GetString("modality")
			if cmd.Flags().Changed("eigenvalues") {
				cfg.Graph.Eigenvalues, _ = cmd.Flags().GetInt("eigenvalues")
			}

			g, err := graphio.Load(args[0], modality)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Graph Summary:")
			fmt.Fprintln(out, connectome.Summarize(g))

			if cfg.Graph.Eigenvalues != 0 && len(g.Nodes()) > 0 {
				vals, err := connectome.TopEigenvalues(g, cfg.Graph.Eigenvalues)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Top %d eigenvalues:\n", len(vals))
				for i, v := range vals {
					fmt.Fprintf(out, "  %3d: %.6f\n", i+1, v)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("modality", "dwi", "Graph modality: dwi or func")
	cmd.Flags().Int("eigenvalues", 0, "Number of eigenvalues to report, 0 disables (overrides config)")
	return cmd
}
