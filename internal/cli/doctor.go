package cli

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/futureCreator/upptime-ci/internal/config"
	"github.com/futureCreator/upptime-ci/internal/github"
	"github.com/futureCreator/upptime-ci/internal/project"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check upptime-ci prerequisites and configuration",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	allOK := true

	check := func(label string, ok bool, hint string) {
		if ok {
			fmt.Fprintf(out, "✅ %s\n", label)
		} else {
			fmt.Fprintf(out, "❌ %s: %s\n", label, hint)
			allOK = false
		}
	}

	// 1. git repo
	_, err := exec.LookPath("git")
	check("git installed", err == nil, "install git")
	if err == nil {
		check("inside git repository", project.IsRepo(), "run from the root of your Upptime repository")
	}

	// 2. config
	configPath := settings.GetString("config")
	_, cfgErr := config.Load(configPath)
	check("config valid ("+configPath+")", cfgErr == nil, fmt.Sprintf("%v", cfgErr))

	// 3. GitHub access
	if tag := settings.GetString("monitor-version"); tag != "" {
		check("monitor release pinned to "+tag, true, "")
	} else {
		_, source, tokenErr := github.Token(apiHost(settings.GetString("api-url")))
		check("GitHub token available", tokenErr == nil,
			"set GH_PAT or run 'gh auth login' to avoid API rate limits")
		if tokenErr == nil {
			fmt.Fprintf(out, "   token source: %s\n", source)
		}

		tag, resolveErr := newResolver().Resolve(commandContext(cmd))
		check("latest uptime-monitor release resolved", resolveErr == nil, fmt.Sprintf("%v", resolveErr))
		if resolveErr == nil {
			fmt.Fprintf(out, "   release: %s\n", tag)
		}
	}

	fmt.Fprintln(out)
	if allOK {
		fmt.Fprintln(out, "All checks passed. upptime-ci is ready.")
	} else {
		fmt.Fprintln(out, "Some checks failed. Fix the issues above before generating workflows.")
	}
	return nil
}
