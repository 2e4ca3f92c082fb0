package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a resume JSON file to PDF",
	Long:  "Renders a ResumeData JSON file, captures the preview with headless Chrome and writes a single-page A4 PDF.",
	RunE:  runExport,
}

var (
	exportInput    string
	exportTemplate string
	exportTheme    string
	exportOutput   string
	exportAll      bool
	exportOutDir   string
)

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "in", "i", "", "Path to ResumeData JSON file (required)")
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "Template: modern, classic or elegant")
	exportCmd.Flags().StringVar(&exportTheme, "theme", "", "Theme: blue, green, pink or light")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", export.DefaultFilename, "Path to output PDF file")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every template and theme combination")
	exportCmd.Flags().StringVar(&exportOutDir, "out-dir", ".", "Output directory for --all")

	if err := exportCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	snap, err := loadSnapshot(exportInput, exportTemplate, exportTheme, cfg.Presentation())
	if err != nil {
		return err
	}

	renderer := rendering.MustNewRenderer()
	pipeline := newPipeline(cfg)
	printer := observability.NewPrinter(cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if exportAll {
		written, err := exportCombinations(ctx, pipeline, renderer, snap, exportOutDir)
		for _, path := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path) //nolint:errcheck
		}
		return err
	}

	if cfg.Verbose {
		printer.PrintSnapshot(snap)
	}
	res, err := exportOne(ctx, pipeline, renderer, snap, exportOutput)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		printer.PrintExport(res)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportOutput) //nolint:errcheck
	return nil
}

func exportOne(ctx context.Context, exporter export.Exporter, renderer *rendering.Renderer, snap types.Snapshot, path string) (*export.Result, error) {
	doc, err := renderer.Render(snap)
	if err != nil {
		return nil, err
	}
	res, err := exporter.Export(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, res.PDF, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return res, nil
}

// exportCombinations writes resume-<template>-<theme>.pdf for every combination.
// Captures run concurrently, bounded by the rasterizer's own limit. A failed
// combination does not stop the others: the paths that were written are
// returned together with the first error.
func exportCombinations(ctx context.Context, exporter export.Exporter, renderer *rendering.Renderer, snap types.Snapshot, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var variants []types.Snapshot
	for _, tmpl := range types.Templates() {
		for _, theme := range types.Themes() {
			variant := snap
			variant.Presentation.Template = tmpl
			variant.Presentation.Theme = theme
			variants = append(variants, variant)
		}
	}

	paths := make([]string, len(variants))
	written := make([]bool, len(variants))
	var g errgroup.Group
	for i, variant := range variants {
		paths[i] = filepath.Join(dir, fmt.Sprintf("resume-%s-%s.pdf", variant.Presentation.Template, variant.Presentation.Theme))
		g.Go(func() error {
			if _, err := exportOne(ctx, exporter, renderer, variant, paths[i]); err != nil {
				return fmt.Errorf("%s/%s: %w", variant.Presentation.Template, variant.Presentation.Theme, err)
			}
			written[i] = true
			return nil
		})
	}
	err := g.Wait()

	var done []string
	for i, ok := range written {
		if ok {
			done = append(done, paths[i])
		}
	}
	return done, err
}
