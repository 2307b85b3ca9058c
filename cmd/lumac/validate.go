package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumakit/luma/anim"
	"github.com/lumakit/luma/assets"
	"github.com/lumakit/luma/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [document.json]",
	Short: "Check a document against the supported subset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		report := validate.New(validateContext(args[0])).Validate(doc)
		for _, issue := range report.Warnings() {
			fmt.Fprintf(cmd.OutOrStdout(), "warning: %s: %s: %s\n", issue.Code, issue.Path, issue.Message)
		}
		for _, issue := range report.Errors() {
			fmt.Fprintf(cmd.OutOrStdout(), "error: %s: %s: %s\n", issue.Code, issue.Path, issue.Message)
		}
		if report.HasErrors() {
			return fmt.Errorf("%d validation error(s)", len(report.Errors()))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func loadDocument(path string) (*anim.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return anim.Decode(data)
}

func validateContext(docPath string) validate.Context {
	ref := strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))
	return validate.Context{
		Ref:        ref,
		FrameRate:  flagFrameRate,
		Width:      flagWidth,
		Height:     flagHeight,
		BindingKey: flagBindingKey,
		Resolver:   assets.NewLocalResolver(flagAssets),
	}
}
