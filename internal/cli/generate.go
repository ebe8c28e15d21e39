package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	vlog "github.com/futureCreator/upptime-ci/internal/log"
	"github.com/futureCreator/upptime-ci/internal/project"
	"github.com/futureCreator/upptime-ci/internal/workflow"
)

// DefaultWorkflowDir is where GitHub looks for workflow files.
const DefaultWorkflowDir = ".github/workflows"

var (
	generateDir    string
	generateStdout bool
	generateStage  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [workflow...]",
	Short: "Write the workflow files (all by default)",
	Long: `generate renders the selected workflows (graphs, response-time, setup,
static-site, summary, update-template, updates, uptime; all when none are
named) and writes them into the workflow directory.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateDir, "dir", "d", DefaultWorkflowDir, "directory to write workflow files into")
	generateCmd.Flags().BoolVar(&generateStdout, "stdout", false, "print the workflows instead of writing files")
	generateCmd.Flags().BoolVar(&generateStage, "stage", false, "git add the written files")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	kinds, err := workflow.ParseKinds(args)
	if err != nil {
		return err
	}
	docs, err := newGenerator().GenerateKinds(commandContext(cmd), kinds)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if generateStdout {
		return printDocuments(out, docs)
	}

	if err := os.MkdirAll(generateDir, 0755); err != nil {
		return fmt.Errorf("creating workflow directory: %w", err)
	}

	var written []string
	for _, doc := range docs {
		path := filepath.Join(generateDir, doc.File)
		status, err := writeDocument(path, doc)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", status, path)
		if status != "Unchanged" {
			written = append(written, path)
		}
	}

	if generateStage && len(written) > 0 {
		if err := project.Stage(written...); err != nil {
			return err
		}
		vlog.Info("staged workflow files", "count", len(written))
	}
	return nil
}

// writeDocument writes doc to path and reports whether it was created,
// updated or left unchanged.
func writeDocument(path string, doc *workflow.Document) (string, error) {
	existing, err := os.ReadFile(path)
	status := "Updated"
	switch {
	case errors.Is(err, os.ErrNotExist):
		status = "Created"
	case err != nil:
		return "", fmt.Errorf("reading %s: %w", path, err)
	case bytes.Equal(existing, []byte(doc.Content)):
		return "Unchanged", nil
	}
	if err := os.WriteFile(path, []byte(doc.Content), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return status, nil
}

func printDocuments(w io.Writer, docs []*workflow.Document) error {
	for i, doc := range docs {
		if i > 0 {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, doc.Content); err != nil {
			return err
		}
	}
	return nil
}
