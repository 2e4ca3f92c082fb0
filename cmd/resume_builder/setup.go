package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/form"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// loadConfig resolves the effective configuration; --verbose always wins.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// newPipeline builds the Chrome-backed export pipeline described by cfg.
func newPipeline(cfg config.Config) *export.Pipeline {
	chromePath := cfg.ChromePath
	if chromePath == "" {
		chromePath = export.FindChrome()
	}

	opts := export.DefaultChromeOptions()
	opts.ExecPath = chromePath
	opts.Timeout = cfg.CaptureTimeoutDuration()
	opts.MaxConcurrent = int64(cfg.MaxConcurrentCaptures)
	opts.Verbose = cfg.Verbose

	p := export.NewPipeline(export.NewChromeRasterizer(opts), export.PDFPackager{})
	p.Scale = cfg.CaptureScale
	p.Margin = cfg.PageMarginPoints()
	p.Verbose = cfg.Verbose
	return p
}

// loadSnapshot reads a ResumeData document, checks it against the schema and
// applies the requested template and theme. Empty names keep the configured defaults.
func loadSnapshot(path, template, theme string, defaults types.Presentation) (types.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("failed to read resume file: %w", err)
	}
	if err := schemas.ValidateResumeData(raw); err != nil {
		return types.Snapshot{}, err
	}

	var data types.ResumeData
	if err := json.Unmarshal(raw, &data); err != nil {
		return types.Snapshot{}, fmt.Errorf("failed to parse resume file: %w", err)
	}

	store := form.Restore(types.Snapshot{Resume: data, Presentation: defaults})
	if template != "" {
		if err := store.SetTemplate(template); err != nil {
			return types.Snapshot{}, err
		}
	}
	if theme != "" {
		if err := store.SetTheme(theme); err != nil {
			return types.Snapshot{}, err
		}
	}
	return store.Snapshot(), nil
}
