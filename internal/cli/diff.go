package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/k14s/difflib"
	"github.com/spf13/cobra"

	"github.com/futureCreator/upptime-ci/internal/workflow"
)

var diffDir string

// errDrift is returned when on-disk workflows differ from the generated ones.
var errDrift = errors.New("workflows are out of date; run 'upptime-ci generate'")

var diffCmd = &cobra.Command{
	Use:   "diff [workflow...]",
	Short: "Show how the workflow files differ from freshly generated ones",
	RunE:  runDiff,
}

func init() {
	diffCmd.Flags().StringVarP(&diffDir, "dir", "d", DefaultWorkflowDir, "directory holding the workflow files")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	kinds, err := workflow.ParseKinds(args)
	if err != nil {
		return err
	}
	docs, err := newGenerator().GenerateKinds(commandContext(cmd), kinds)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	drifted := 0
	for _, doc := range docs {
		path := filepath.Join(diffDir, doc.File)
		existing, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(out, "missing %s\n", path)
			drifted++
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if string(existing) == doc.Content {
			continue
		}
		drifted++
		fmt.Fprintf(out, "--- %s\n%v\n", path,
			difflib.PPDiff(strings.Split(string(existing), "\n"), strings.Split(doc.Content, "\n")))
	}

	if drifted > 0 {
		return fmt.Errorf("%d of %d: %w", drifted, len(docs), errDrift)
	}
	fmt.Fprintf(out, "All %d workflows are up to date.\n", len(docs))
	return nil
}
