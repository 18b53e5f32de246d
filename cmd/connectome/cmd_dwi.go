package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"connectome/pkg/connectome"
	"connectome/pkg/graphio"
	"connectome/pkg/ingest"
)

func newDWICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dwi",
		Short: "Build structural connectomes from tractography streamlines",
		Long: `Build one structural connectome per parcellation. Each edge counts the
streamlines that pass through both regions anywhere along their path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			streamsPath, _ := cmd.Flags().GetString("streamlines")
			labels, _ := cmd.Flags().GetStringSlice("labels")
			outDir, _ := cmd.Flags().GetString("outdir")
			prefix, _ := cmd.Flags().GetString("prefix")
			if cmd.Flags().Changed("workers") {
				cfg.Processing.Workers, _ = cmd.Flags().GetInt("workers")
			}
			if cmd.Flags().Changed("keep-isolates") {
				cfg.Processing.KeepIsolates, _ = cmd.Flags().GetBool("keep-isolates")
			}

			sub, _ := graphio.SubjectFromPath(prefix)
			ses, _ := graphio.SessionFromPath(prefix)
			log = log.WithSubject(sub, ses)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "================================")
			fmt.Fprintln(out, "STRUCTURAL CONNECTOME ESTIMATION")
			fmt.Fprintln(out, "================================")

			start := time.Now()
			streamlines, err := ingest.LoadStreamlines(streamsPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Loaded %d streamlines\n", len(streamlines))

			builder := connectome.NewStreamlineBuilder(
				connectome.WithWorkers(cfg.Processing.Workers),
				connectome.WithIsolates(cfg.Processing.KeepIsolates),
				connectome.WithLogger(log),
			)
			for _, labelPath := range labels {
				name := labelName(labelPath)
				fmt.Fprintf(out, "Generating graph for %s parcellation...\n", name)

				vol, err := ingest.LoadLabelVolume(labelPath)
				if err != nil {
					return err
				}
				g, err := builder.BuildFromVolume(cmd.Context(), streamlines, vol)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}

				dest := filepath.Join(outDir, name, graphFileName(prefix, name))
				if err := graphio.Save(g, dest); err != nil {
					return err
				}
				fmt.Fprintln(out, connectome.Summarize(g))
				fmt.Fprintf(out, "Connectome saved to: %s\n\n", dest)
			}

			fmt.Fprintf(out, "Execution took: %s\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().String("streamlines", "", "Streamline CSV (streamline,x,y,z)")
	cmd.Flags().StringSlice("labels", nil, "Label volume(s) aligned to the diffusion image")
	cmd.Flags().String("outdir", ".", "Directory for roi-connectomes")
	cmd.Flags().String("prefix", "", "File name prefix, e.g. sub-0025864_ses-1")
	cmd.Flags().Int("workers", 0, "Goroutines for the streamline loop (overrides config)")
	cmd.Flags().Bool("keep-isolates", false, "Keep unconnected atlas regions as nodes (overrides config)")
	_ = cmd.MarkFlagRequired("streamlines")
	_ = cmd.MarkFlagRequired("labels")
	return cmd
}

// labelName derives the parcellation name from its file name,
// e.g. /atlases/desikan_space-MNI152.lbl -> desikan_space-MNI152.
func labelName(path string) string {
	base := filepath.Base(path)
	for ext := filepath.Ext(base); ext != ""; ext = filepath.Ext(base) {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

func graphFileName(prefix, label string) string {
	if prefix == "" {
		return label + graphio.GraphSuffix
	}
	return prefix + "_" + label + graphio.GraphSuffix
}
