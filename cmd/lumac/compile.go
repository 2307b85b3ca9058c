package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumakit/luma/compile"
	"github.com/lumakit/luma/container"
)

var compileCmd = &cobra.Command{
	Use:   "compile [document.json] [artifact.lumc]",
	Short: "Compile a document into a persisted artifact",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		result, err := compile.Compile(doc, validateContext(args[0]))
		if err != nil {
			return err
		}
		for _, issue := range result.Report.Warnings() {
			fmt.Fprintf(cmd.OutOrStdout(), "warning: %s: %s: %s\n", issue.Code, issue.Path, issue.Message)
		}

		data, err := container.Marshal(container.New(result.Anim, result.Registry))
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, %d paths)\n",
			args[1], len(data), result.Registry.Len())
		return nil
	},
}
