package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume JSON file to HTML",
	Long:  "Renders a ResumeData JSON file with the chosen template and theme and writes the standalone preview document, or prints its text outline.",
	RunE:  runRender,
}

var (
	renderInput    string
	renderTemplate string
	renderTheme    string
	renderOutput   string
	renderOutline  bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "in", "i", "", "Path to ResumeData JSON file (required)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Template: modern, classic or elegant")
	renderCmd.Flags().StringVar(&renderTheme, "theme", "", "Theme: blue, green, pink or light")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Path to output HTML file (defaults to stdout)")
	renderCmd.Flags().BoolVar(&renderOutline, "outline", false, "Print the text outline instead of HTML")

	if err := renderCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	snap, err := loadSnapshot(renderInput, renderTemplate, renderTheme, cfg.Presentation())
	if err != nil {
		return err
	}

	doc, err := rendering.MustNewRenderer().Render(snap)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintSnapshot(snap)
	}

	if renderOutline {
		lines, err := doc.Lines()
		if err != nil {
			return err
		}
		for _, line := range lines {
			fmt.Fprintln(cmd.OutOrStdout(), line) //nolint:errcheck
		}
		return nil
	}

	if renderOutput == "" {
		_, err := cmd.OutOrStdout().Write(doc.HTML)
		return err
	}
	if err := os.WriteFile(renderOutput, doc.HTML, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s/%s to %s\n", doc.Template, doc.Theme, renderOutput) //nolint:errcheck
	return nil
}
