package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/futureCreator/upptime-ci/internal/assets"
	vlog "github.com/futureCreator/upptime-ci/internal/log"
	"github.com/futureCreator/upptime-ci/internal/project"
)

var (
	initOwner string
	initRepo  string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter .upptimerc.yml",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVar(&initOwner, "owner", "", "repository owner (default: from the origin remote)")
	initCmd.Flags().StringVar(&initRepo, "repo", "", "repository name (default: from the origin remote)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configPath := settings.GetString("config")
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(out, "Config already exists: %s\n", configPath)
		return nil
	}

	owner, repo := initOwner, initRepo
	if owner == "" || repo == "" {
		remoteOwner, remoteRepo, err := project.RemoteSlug()
		if err != nil {
			vlog.Warn("could not detect repository from git remote", "err", err)
		}
		if owner == "" {
			owner = remoteOwner
		}
		if repo == "" {
			repo = remoteRepo
		}
	}

	content, err := assets.StarterConfig(owner, repo)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(out, "Created %s\n", configPath)
	if owner == "" || repo == "" {
		fmt.Fprintln(out, "Set owner and repo in the file before generating workflows.")
	}
	fmt.Fprintln(out, "Run 'upptime-ci generate' to write the workflow files.")
	return nil
}
