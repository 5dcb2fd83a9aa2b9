package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cpgo/cpgo/internal/driver"
	"github.com/cpgo/cpgo/internal/fileutil"
	"github.com/spf13/cobra"
)

// buildSummary is the JSON-friendly shape cpgo build --json prints:
// driver.Result itself carries the live *graph.Graph, which json.Marshal
// would otherwise try and fail to serialize meaningfully.
type buildSummary struct {
	RunID            string   `json:"run_id"`
	ModulePath       string   `json:"module_path"`
	Root             string   `json:"root"`
	TranslationUnits int      `json:"translation_units"`
	Records          int      `json:"records"`
	Inferred         int      `json:"inferred_declarations"`
	Problems         int      `json:"problems"`
	Diagnostics      int      `json:"diagnostics"`
	CoarseFunctions  int      `json:"coarse_functions,omitempty"`
	CoarseMethods    int      `json:"coarse_methods,omitempty"`
	CoarseTypes      int      `json:"coarse_types,omitempty"`
}

// RunBuild runs the whole driver pipeline over a project root and prints a
// run summary, matching the teacher's RunGenerate/RunUpdate: plain text by
// default, --json for a machine-readable summary (internal/cli/generate.go).
func RunBuild(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	root, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cli: resolve root: %w", err)
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}
	ambiguityCap, err := cmd.Flags().GetInt("ambiguity-cap")
	if err != nil {
		return fmt.Errorf("failed to read --ambiguity-cap flag: %w", err)
	}
	skipCoarse, err := cmd.Flags().GetBool("no-coarse-scan")
	if err != nil {
		return fmt.Errorf("failed to read --no-coarse-scan flag: %w", err)
	}
	ignoreFile, err := cmd.Flags().GetString("ignore-file")
	if err != nil {
		return fmt.Errorf("failed to read --ignore-file flag: %w", err)
	}

	result, err := driver.Build(driver.Options{
		Root:            root,
		AmbiguityCap:    ambiguityCap,
		SkipCoarseScan:  skipCoarse,
		IgnoreFile:      ignoreFile,
	})
	if err != nil {
		return err
	}

	for _, entry := range result.Diagnostics {
		fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", entry.Severity, entry.Source, entry.Message)
	}

	summary := buildSummary{
		RunID:            result.RunID,
		ModulePath:       result.ModulePath,
		Root:             result.Root,
		TranslationUnits: len(result.Graph.TranslationUnits),
		Records:          len(result.Graph.FQNIndex),
		Inferred:         len(result.Graph.Inferred),
		Problems:         len(result.Graph.Problems),
		Diagnostics:      len(result.Diagnostics),
	}
	if result.CoarseScan != nil {
		summary.CoarseFunctions = result.CoarseScan.Functions
		summary.CoarseMethods = result.CoarseScan.Methods
		summary.CoarseTypes = result.CoarseScan.Types
	}

	if asJSON {
		return fileutil.PrintJSON(summary)
	}

	fmt.Printf("run %s: module %q, %d translation unit(s), %d record(s), %d inferred, %d problem(s), %d diagnostic(s)\n",
		summary.RunID, summary.ModulePath, summary.TranslationUnits, summary.Records, summary.Inferred, summary.Problems, summary.Diagnostics)
	return nil
}
