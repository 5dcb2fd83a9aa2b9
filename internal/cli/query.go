package cli

import (
	"fmt"
	"path/filepath"

	"github.com/cpgo/cpgo/internal/driver"
	"github.com/cpgo/cpgo/internal/fileutil"
	"github.com/cpgo/cpgo/internal/graph"
	"github.com/spf13/cobra"
)

// recordSummary is the JSON-friendly shape cpgo query --json prints: a
// flattened view of a *graph.Record, since the live Record's Methods and
// SuperTypeDeclarations hold pointers back into the rest of the graph that
// json.Marshal would otherwise walk indefinitely.
type recordSummary struct {
	FQN          string   `json:"fqn"`
	Kind         string   `json:"kind"`
	File         string   `json:"file,omitempty"`
	Fields       []string `json:"fields,omitempty"`
	Methods      []string `json:"methods,omitempty"`
	SuperClasses []string `json:"super_classes,omitempty"`
	Implements   []string `json:"implements,omitempty"`
}

// RunQuery builds the project at path (or "." by default) and looks up one
// record by fully-qualified name, mirroring the teacher's symbol/definition
// commands (internal/cli/root.go's own query subcommand).
func RunQuery(cmd *cobra.Command, args []string) error {
	fqn := args[0]
	path := "."
	if len(args) > 1 {
		path = args[1]
	}
	root, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cli: resolve root: %w", err)
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}

	result, err := driver.Build(driver.Options{Root: root})
	if err != nil {
		return err
	}

	rec, ok := result.Graph.RecordByFQN(fqn)
	if !ok {
		return fmt.Errorf("cli: no record found for %q", fqn)
	}

	summary := recordSummaryOf(rec)

	if asJSON {
		return fileutil.PrintJSON(summary)
	}

	fmt.Printf("%s (%s)\n", summary.FQN, summary.Kind)
	if summary.File != "" {
		fmt.Printf("  declared in %s\n", summary.File)
	}
	for _, f := range summary.Fields {
		fmt.Printf("  field  %s\n", f)
	}
	for _, m := range summary.Methods {
		fmt.Printf("  method %s\n", m)
	}
	for _, s := range summary.SuperClasses {
		fmt.Printf("  embeds %s\n", s)
	}
	for _, i := range summary.Implements {
		fmt.Printf("  implements %s\n", i)
	}
	return nil
}

func recordSummaryOf(rec *graph.Record) recordSummary {
	summary := recordSummary{
		FQN:  rec.Name,
		Kind: string(rec.RecordKind),
	}
	if rec.Location != nil {
		summary.File = rec.Location.File
	}
	for _, f := range rec.Fields {
		summary.Fields = append(summary.Fields, f.Name)
	}
	for _, m := range rec.Methods {
		summary.Methods = append(summary.Methods, m.Name)
	}
	for _, s := range rec.SuperClasses {
		summary.SuperClasses = append(summary.SuperClasses, s.CanonicalName())
	}
	for _, i := range rec.ImplementedInterfaces {
		summary.Implements = append(summary.Implements, i.CanonicalName())
	}
	return summary
}
