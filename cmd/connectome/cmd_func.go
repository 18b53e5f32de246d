package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"connectome/pkg/connectome"
	"connectome/pkg/graphio"
	"connectome/pkg/ingest"
)

func newFuncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "func",
		Short: "Build a functional connectome from regional timeseries",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			tsPath, _ := cmd.Flags().GetString("timeseries")
			dest, _ := cmd.Flags().GetString("out")

			ts, ids, err := ingest.LoadTimeseries(tsPath)
			if err != nil {
				return err
			}
			g, err := connectome.NewCorrelationBuilder(connectome.WithLogger(log)).Build(ts, ids)
			if err != nil {
				return err
			}
			if err := graphio.Save(g, dest); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, connectome.Summarize(g))
			fmt.Fprintf(out, "Connectome saved to: %s\n", dest)
			return nil
		},
	}
	cmd.Flags().String("timeseries", "", "Timeseries CSV, one region per row (id,v1,v2,...)")
	cmd.Flags().String("out", "func_adj.csv", "Output graph file")
	_ = cmd.MarkFlagRequired("timeseries")
	return cmd
}
