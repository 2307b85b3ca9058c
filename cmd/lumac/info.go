package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumakit/luma/container"
)

var infoCmd = &cobra.Command{
	Use:   "info [artifact.lumc]",
	Short: "Inspect an artifact header and contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		h, err := container.ReadHeader(data)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "format version: %d\n", h.Version)
		fmt.Fprintf(out, "header length:  %d\n", h.HeaderLen)
		fmt.Fprintf(out, "payload length: %d\n", h.PayloadLen)
		fmt.Fprintf(out, "checksum:       %#x\n", h.Checksum)

		a, err := container.Unmarshal(data)
		if err != nil {
			return err
		}
		meta := a.Anim.Meta
		fmt.Fprintf(out, "engine:         %s\n", a.Runtime.Engine)
		fmt.Fprintf(out, "canvas:         %dx%d @ %g fps\n", meta.Width, meta.Height, meta.FrameRate)
		fmt.Fprintf(out, "frames:         [%g, %g)\n", meta.InPoint, meta.OutPoint)
		fmt.Fprintf(out, "compositions:   %d\n", len(a.Anim.Comps))
		fmt.Fprintf(out, "paths:          %d\n", a.Registry.Len())
		fmt.Fprintf(out, "assets:         %d\n", len(a.Anim.Assets))
		if a.Anim.Binding != nil {
			fmt.Fprintf(out, "binding:        layer %d in comp %s\n", a.Anim.Binding.Layer, a.Anim.Binding.Comp)
		}
		return nil
	},
}
