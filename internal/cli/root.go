// Package cli implements cpgo's command surface: a build command that
// runs the whole driver pipeline over a project root and a query command
// that looks up one record by fully-qualified name in the resulting graph.
// Grounded on the teacher's internal/cli/root.go: a flat *cobra.Command
// construction per subcommand, flags attached directly via .Flags(), and
// one rootCmd.AddCommand(...) call at the end.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the cpgo root command.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cpgo",
		Short: "Build and query code property graphs for Go projects",
		Long: `cpgo parses a Go module into a code property graph - declarations,
statements, expressions and the data-flow/reference/inheritance edges
between them - and lets you inspect the result from the command line.`,
	}

	buildCmd := &cobra.Command{
		Use:   "build [path]",
		Short: "Parse a project and run the resolver pipeline over it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunBuild,
	}
	buildCmd.Flags().Bool("json", false, "Print the run summary as JSON")
	buildCmd.Flags().Int("ambiguity-cap", 0, "Override the function-pointer-call ambiguity cap (0 keeps the resolver default)")
	buildCmd.Flags().Bool("no-coarse-scan", false, "Skip the tree-sitter coarse pre-scan stage")
	buildCmd.Flags().String("ignore-file", "", "Gitignore-style file (relative to the project root) of extra exclude rules")

	queryCmd := &cobra.Command{
		Use:   "query <fqn> [path]",
		Short: "Look up one record by fully-qualified name",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  RunQuery,
	}
	queryCmd.Flags().Bool("json", false, "Print the matched record as JSON")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cpgo %s\n", version)
		},
	}

	rootCmd.AddCommand(
		buildCmd,
		queryCmd,
		versionCmd,
	)

	return rootCmd
}
