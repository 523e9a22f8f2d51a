package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"moviefmt/internal/config"
)

// runFlags mirrors the command-line overrides for a run.
type runFlags struct {
	outDir             string
	apiToken           string
	dontCapitalize     bool
	deleteUnrecognized bool
	move               bool
	verbose            bool
	dryRun             bool
	nonInteractive     bool
}

type commandContext struct {
	configFlag *string
	flags      *runFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string, flags *runFlags) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		flags:      flags,
	}
}

// ensureConfig loads the configuration file once. The result is normalized
// but not validated.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// runConfig returns a copy of the loaded configuration with command-line
// overrides applied and validated.
func (c *commandContext) runConfig() (*config.Config, error) {
	loaded, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	cfg := *loaded
	if err := applyRunFlags(&cfg, c.flags); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyRunFlags(cfg *config.Config, flags *runFlags) error {
	if flags == nil {
		return nil
	}
	if token := strings.TrimSpace(flags.apiToken); token != "" {
		cfg.TMDB.APIToken = token
	}
	if out := strings.TrimSpace(flags.outDir); out != "" {
		expanded, err := config.ExpandPath(out)
		if err != nil {
			return fmt.Errorf("resolve output directory: %w", err)
		}
		cfg.Organize.OutputDir = expanded
	}
	if flags.dontCapitalize {
		cfg.Organize.Capitalize = false
	}
	if flags.deleteUnrecognized {
		cfg.Organize.DeleteUnrecognized = true
	}
	if flags.move {
		cfg.Organize.Move = true
	}
	if flags.dryRun {
		cfg.Workflow.DryRun = true
	}
	if flags.nonInteractive {
		cfg.Workflow.NonInteractive = true
	}
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
