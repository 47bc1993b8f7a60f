package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	mandel "github.com/marben/deepzoom_mandel"
)

func newLandmarksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "landmarks",
		Short: "List the named views accepted by --view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCENTER X\tCENTER Y\tSCALE")
			for _, name := range mandel.LandmarkNames() {
				v, err := mandel.Landmark(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, v.CenterX, v.CenterY, v.Scale)
			}
			return w.Flush()
		},
	}
}
