package project

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// gitRun executes a git subcommand and returns its stdout.
// It is a package-level variable so tests can replace it with a mock.
var gitRun = func(args ...string) ([]byte, error) {
	return exec.Command("git", args...).Output()
}

// IsRepo reports whether the working directory is inside a git work tree.
func IsRepo() bool {
	out, err := gitOutput("rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Stage adds paths to the git index.
func Stage(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	if _, err := gitOutput(args...); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	return nil
}

// remotePattern captures owner and repo from https and ssh GitHub remotes.
var remotePattern = regexp.MustCompile(`github\.com[:/]([^/]+)/([^/]+?)(?:\.git)?/?$`)

// RemoteSlug returns the owner and repository name of the origin remote.
func RemoteSlug() (owner, repo string, err error) {
	url, err := gitOutput("remote", "get-url", "origin")
	if err != nil {
		return "", "", fmt.Errorf("getting origin remote: %w", err)
	}
	return ParseRemote(url)
}

// ParseRemote extracts owner and repository from a GitHub remote URL.
func ParseRemote(url string) (owner, repo string, err error) {
	m := remotePattern.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return "", "", fmt.Errorf("not a GitHub remote: %q", url)
	}
	return m[1], m[2], nil
}

func gitOutput(args ...string) (string, error) {
	out, err := gitRun(args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
