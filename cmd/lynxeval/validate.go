package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/atlanticdynamic/lynxeval/internal/config"
	"github.com/atlanticdynamic/lynxeval/internal/fancy"
)

var errValidationFailed = errors.New("validation failed")

func newValidateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"lint"},
		Usage:     "Validate one or more configuration files",
		ArgsUsage: "<file> [file...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "tree",
				Aliases: []string{"t"},
				Usage:   "Show detailed tree view of the validated configuration",
			},
		},
		Action: validateAction,
	}
}

type validationResult struct {
	Path   string
	Config *config.Config
	Error  error
}

func validateAction(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("config file path required")
	}

	results := validateFiles(paths)
	failed := renderResults(cmd.Root().Writer, results, cmd.Bool("tree"))
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", errValidationFailed, failed, len(results))
	}
	return nil
}

func validateFiles(paths []string) []validationResult {
	results := make([]validationResult, 0, len(paths))
	for _, path := range paths {
		cfg, err := config.NewConfig(path)
		results = append(results, validationResult{Path: path, Config: cfg, Error: err})
	}
	return results
}

// renderResults prints one block per file and returns the number of failures.
func renderResults(w io.Writer, results []validationResult, treeView bool) int {
	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			fmt.Fprintf(w, "%s %s\n", fancy.ErrorText("invalid"), fancy.PathText(r.Path))
			for _, line := range strings.Split(r.Error.Error(), "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
			continue
		}

		fmt.Fprintf(w, "%s %s\n", fancy.ValidText("valid"), fancy.PathText(r.Path))
		if treeView {
			fmt.Fprintln(w, r.Config)
			continue
		}
		fmt.Fprint(w, renderConfigSummary(r.Config))
	}
	return failed
}

// renderConfigSummary creates a formatted summary string for the configuration
func renderConfigSummary(cfg *config.Config) string {
	var summary strings.Builder
	fmt.Fprintf(&summary, "  version: %s\n", cfg.Version)
	fmt.Fprintf(&summary, "  address: %s\n", cfg.HTTP.Address)
	fmt.Fprintf(&summary, "  languages: %s\n", strings.Join(cfg.EnabledLanguages(), ", "))
	return summary.String()
}
