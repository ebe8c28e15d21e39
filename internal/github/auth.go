package github

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
)

// ghRun executes a gh subcommand and returns its stdout.
// It is a package-level variable so tests can replace it with a mock.
var ghRun = func(args ...string) ([]byte, error) {
	return exec.Command("gh", args...).Output()
}

// lookupEnv is swapped in tests.
var lookupEnv = os.Getenv

// tokenEnvVars are checked in order before falling back to the gh CLI.
var tokenEnvVars = []string{"GH_PAT", "GITHUB_TOKEN", "GH_TOKEN"}

var (
	tokenCache   string
	tokenCacheMu sync.Mutex
)

// tokenPattern matches well-known GitHub token prefixes followed by at least 36 alphanumeric chars.
var tokenPattern = regexp.MustCompile(`^(ghp_|ghs_|gho_|ghu_|github_pat_)[a-zA-Z0-9_]{36,}$`)

// ErrNoToken means neither the environment nor the gh CLI provided a token.
var ErrNoToken = errors.New("no GitHub token found")

// Token returns a GitHub token from the environment, or from `gh auth token`
// when none is set. The gh result is cached for the process lifetime.
// Callers may proceed anonymously on ErrNoToken.
func Token(host string) (string, string, error) {
	for _, name := range tokenEnvVars {
		if v := strings.TrimSpace(lookupEnv(name)); v != "" {
			return v, name, nil
		}
	}
	token, err := GetGHToken(host)
	if err != nil {
		return "", "", err
	}
	return token, "gh", nil
}

// GetGHToken retrieves a GitHub token via gh auth token and caches it for the
// process lifetime. Thread-safe.
func GetGHToken(host string) (string, error) {
	tokenCacheMu.Lock()
	defer tokenCacheMu.Unlock()

	if tokenCache != "" {
		return tokenCache, nil
	}

	args := []string{"auth", "token"}
	if host != "" && host != "github.com" {
		args = append(args, "--hostname", host)
	}

	out, err := ghRun(args...)
	if err != nil {
		if isGhNotFound(err) {
			return "", fmt.Errorf("%w: 'gh' CLI is not installed and GH_PAT/GITHUB_TOKEN are unset", ErrNoToken)
		}
		return "", fmt.Errorf("%w: 'gh' CLI is not authenticated. Run 'gh auth login' or set GH_PAT", ErrNoToken)
	}

	token := strings.TrimSpace(string(out))
	if !tokenPattern.MatchString(token) {
		return "", fmt.Errorf("token returned by 'gh auth token' has an unexpected format. Ensure 'gh' is up to date")
	}

	tokenCache = token
	return token, nil
}

// ResetTokenCache clears the cached token. Used in tests.
func ResetTokenCache() {
	tokenCacheMu.Lock()
	defer tokenCacheMu.Unlock()
	tokenCache = ""
}

// isGhNotFound returns true when err indicates that the gh binary was not found.
func isGhNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}
