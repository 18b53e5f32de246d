package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"connectome/pkg/connectome"
	"connectome/pkg/discriminability"
	"connectome/pkg/graphio"
)

func newDiscrimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discrim <participant-dir>",
		Short: "Compute discriminability over graphs from repeated scans",
		Long: `Collect every *_adj.csv graph for one atlas below a participant-level
output directory, label each by its BIDS subject (sub-XXXX), and report how
reliably repeated scans of a subject are closer to each other than to other
subjects.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("atlas") {
				cfg.Graph.Atlas, _ = cmd.Flags().GetString("atlas")
			}
			if cmd.Flags().Changed("keep-isolates") {
				keep, _ := cmd.Flags().GetBool("keep-isolates")
				cfg.Discriminability.RemoveIsolates = !keep
			}
			modality, _ := cmd.Flags().GetString("modality")
			showRDFs, _ := cmd.Flags().GetBool("rdfs")

			files, err := graphio.FindGraphFiles(args[0], cfg.Graph.Atlas)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no %s graphs for atlas %q under %s", graphio.GraphSuffix, cfg.Graph.Atlas, args[0])
			}

			graphs := make([]connectome.Graph, 0, len(files))
			labels := make([]string, 0, len(files))
			for _, f := range files {
				sub, ok := graphio.SubjectFromPath(f)
				if !ok {
					log.Warn("skipping graph without subject label", slog.String("path", f))
					continue
				}
				g, err := graphio.Load(f, modality)
				if err != nil {
					return err
				}
				graphs = append(graphs, g)
				labels = append(labels, sub)
			}
			log.Info("collected graphs", slog.Int("graphs", len(graphs)), slog.String("atlas", cfg.Graph.Atlas))

			x, nodes, err := discriminability.FeatureMatrix(graphs)
			if err != nil {
				return err
			}
			opts := []discriminability.Option{
				discriminability.WithIsolates(cfg.Discriminability.RemoveIsolates),
			}
			if showRDFs {
				opts = append(opts, discriminability.WithRDFs())
			}
			res, err := discriminability.Compute(x, labels, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Graphs: %d (%d regions)\n", len(graphs), len(nodes))
			fmt.Fprintf(out, "Samples used: %d\n", len(res.Labels))
			fmt.Fprintf(out, "Discriminability: %.4f\n", res.Stat)
			for i, rdf := range res.RDFs {
				fmt.Fprintf(out, "  sub-%s: %v\n", res.Labels[i], rdf)
			}
			return nil
		},
	}
	cmd.Flags().String("atlas", "", "Atlas name the graph files must contain (overrides config)")
	cmd.Flags().String("modality", "dwi", "Graph modality: dwi or func")
	cmd.Flags().Bool("keep-isolates", false, "Keep subjects scanned only once (overrides config)")
	cmd.Flags().Bool("rdfs", false, "Print the reliability fractions of every sample")
	return cmd
}
