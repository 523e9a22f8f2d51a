package preflight

import (
	"context"
	"path/filepath"

	"moviefmt/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}

// RunAll executes every check that applies to cfg. inputDir may be empty when
// no run is planned.
func RunAll(ctx context.Context, cfg *config.Config, api Pinger, inputDir string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckTMDB(ctx, api)}

	if inputDir != "" {
		results = append(results, CheckReadable("Input directory", inputDir))
	}

	switch {
	case cfg.Organize.OutputDir != "":
		results = append(results, CheckWritable("Output directory", cfg.Organize.OutputDir))
	case inputDir != "":
		// Folders are renamed next to themselves.
		results = append(results, CheckWritable("Output directory", inputDir))
	}

	if cfg.Journal.Enabled {
		results = append(results, CheckWritable("Journal directory", filepath.Dir(cfg.Journal.Path)))
	}
	return results
}
