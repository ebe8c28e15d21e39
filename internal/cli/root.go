package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/futureCreator/upptime-ci/internal/config"
	"github.com/futureCreator/upptime-ci/internal/github"
	vlog "github.com/futureCreator/upptime-ci/internal/log"
	"github.com/futureCreator/upptime-ci/internal/workflow"
	"github.com/futureCreator/upptime-ci/pkg/version"
)

// settings holds process-wide options from flags and UPPTIME_* env vars.
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   "upptime-ci",
	Short: "Generate the GitHub Actions workflows of an Upptime repository",
	Long: `upptime-ci renders the GitHub Actions workflows that run an Upptime status
repository, pinned to the latest release of upptime/uptime-monitor and shaped
by the workflowSchedule and runner settings in .upptimerc.yml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		vlog.Init(settings.GetString("log-level"), cmd.ErrOrStderr())
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", config.DefaultPath, "path to the Upptime configuration file")
	pf.String("api-url", github.DefaultAPIURL, "GitHub REST API base URL")
	pf.String("monitor-version", "", "uptime-monitor release tag to pin instead of looking up the latest")
	pf.Duration("timeout", 30*time.Second, "timeout for GitHub API requests")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	if err := settings.BindPFlags(pf); err != nil {
		panic(err)
	}
	settings.SetEnvPrefix("UPPTIME")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "upptime-ci %s\n", version.Version)
	},
}

// newResolver builds the release resolver for one command invocation.
func newResolver() workflow.VersionResolver {
	if tag := settings.GetString("monitor-version"); tag != "" {
		vlog.Debug("using pinned monitor release", "tag", tag)
		return github.StaticResolver(tag)
	}

	apiURL := settings.GetString("api-url")
	token, source, err := github.Token(apiHost(apiURL))
	if err != nil {
		vlog.Warn("querying GitHub anonymously", "err", err)
	} else {
		vlog.Debug("authenticating GitHub requests", "source", source)
	}
	client := github.NewClient(apiURL, token, settings.GetDuration("timeout"))
	return github.NewResolver(client)
}

func newGenerator() *workflow.Generator {
	return workflow.New(config.FileProvider{Path: settings.GetString("config")}, newResolver())
}

// apiHost maps an API base URL to the host gh knows it by.
func apiHost(apiURL string) string {
	u, err := url.Parse(apiURL)
	if err != nil || u.Host == "" || u.Host == "api.github.com" {
		return "github.com"
	}
	return u.Host
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
