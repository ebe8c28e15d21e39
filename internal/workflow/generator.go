// Package workflow renders the GitHub Actions workflows that drive an Upptime
// repository. Each workflow kind is a row in a declarative table; a single
// assembly function turns a row, the user's configuration and the resolved
// monitor release into YAML text.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/futureCreator/upptime-ci/internal/assets"
	"github.com/futureCreator/upptime-ci/internal/config"
	vlog "github.com/futureCreator/upptime-ci/internal/log"
)

// VersionResolver returns the monitor release tag embedded in the workflows.
type VersionResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Document is one generated workflow file.
type Document struct {
	Kind    Kind
	File    string
	Content string
}

// Generator produces workflow documents. It is safe for concurrent use when
// its Provider and VersionResolver are.
type Generator struct {
	config   config.Provider
	versions VersionResolver
}

// New returns a Generator reading configuration from cfg and the monitor
// release from versions.
func New(cfg config.Provider, versions VersionResolver) *Generator {
	return &Generator{config: cfg, versions: versions}
}

// Banner returns the header comment shared by every workflow.
func (g *Generator) Banner(ctx context.Context) (string, error) {
	tag, err := g.versions.Resolve(ctx)
	if err != nil {
		return "", err
	}
	return assets.Banner(tag)
}

// Generate renders the workflow for kind. Configuration and release lookup
// failures are returned unchanged in the error chain; no partial document is
// produced.
func (g *Generator) Generate(ctx context.Context, kind Kind) (*Document, error) {
	docs, err := g.GenerateKinds(ctx, []Kind{kind})
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

// GenerateAll renders every kind in order, stopping at the first failure.
func (g *Generator) GenerateAll(ctx context.Context) ([]*Document, error) {
	return g.GenerateKinds(ctx, Kinds())
}

// GenerateKinds renders the given kinds in order, stopping at the first failure.
// The configuration is loaded once and shared by every document of the call.
func (g *Generator) GenerateKinds(ctx context.Context, kinds []Kind) ([]*Document, error) {
	defs := make([]Definition, len(kinds))
	for i, k := range kinds {
		def, ok := Lookup(k)
		if !ok {
			return nil, fmt.Errorf("unknown workflow kind %q", k)
		}
		defs[i] = def
	}
	if len(defs) == 0 {
		return []*Document{}, nil
	}

	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s workflow: %w", defs[0].Kind, err)
	}

	docs := make([]*Document, 0, len(defs))
	for _, def := range defs {
		tag, err := g.versions.Resolve(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s workflow: %w", def.Kind, err)
		}
		banner, err := assets.Banner(tag)
		if err != nil {
			return nil, err
		}

		vlog.Debug("rendering workflow", "kind", def.Kind, "tag", tag, "runner", cfg.RunnerLabel())
		docs = append(docs, &Document{
			Kind:    def.Kind,
			File:    def.File,
			Content: render(def, banner, cfg, tag),
		})
	}
	return docs, nil
}

func (g *Generator) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := g.config.Config(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return &config.Config{}, nil
	}
	return cfg, nil
}

func render(def Definition, banner string, cfg *config.Config, tag string) string {
	var sb strings.Builder
	line := func(indent int, format string, args ...any) {
		sb.WriteString(strings.Repeat("  ", indent))
		fmt.Fprintf(&sb, format, args...)
		sb.WriteByte('\n')
	}

	sb.WriteString(banner)
	sb.WriteString("\n\n")

	line(0, "name: %s", def.Title)
	line(0, "on:")
	if def.ScheduleKey != "" {
		line(1, "schedule:")
		line(2, `- cron: "%s"`, cfg.Schedule(def.ScheduleKey))
	} else {
		line(1, "push:")
		line(2, "paths:")
		for _, p := range def.PushPaths {
			line(3, `- "%s"`, p)
		}
	}
	line(1, "repository_dispatch:")
	line(2, "types: [%s]", def.Dispatch)
	line(1, "workflow_dispatch:")

	line(0, "jobs:")
	line(1, "release:")
	line(2, "name: %s", def.JobName)
	line(2, "runs-on: %s", cfg.RunnerLabel())
	if def.If != "" {
		line(2, "if: %s", def.If)
	}
	line(2, "steps:")
	for _, step := range def.Steps {
		if step.UsesFirst {
			line(3, "- uses: %s", step.Uses(tag))
			line(4, "name: %s", step.Name)
		} else {
			line(3, "- name: %s", step.Name)
			line(4, "uses: %s", step.Uses(tag))
		}
		writeParams(line, "with", step.With)
		writeParams(line, "env", step.Env)
	}
	return sb.String()
}

func writeParams(line func(int, string, ...any), block string, params []Param) {
	if len(params) == 0 {
		return
	}
	line(4, "%s:", block)
	for _, p := range params {
		line(5, "%s: %s", p.Key, p.Value)
	}
}
