package main

import (
	"github.com/spf13/cobra"

	"longview/internal/render"
)

func newSliceCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "slice <csv> [png]",
		Short:       "Render a standalone sliced image from a slice description",
		Long:        "Each CSV row is height,width,lower%,lower,divider,upper,saturation%,brightness%.\nThe PNG defaults to the CSV path with a .png extension.",
		Args:        cobra.RangeArgs(1, 2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			dst := render.SliceOutputName(src)
			if len(args) == 2 {
				dst = args[1]
			}
			w, h, err := render.RenderSliceFile(src, dst)
			if err != nil {
				return err
			}
			fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d)\n", dst, w, h)
			return nil
		},
	}
}
