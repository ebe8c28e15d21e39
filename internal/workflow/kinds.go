package workflow

import (
	"fmt"
	"strings"

	"github.com/futureCreator/upptime-ci/internal/config"
)

// Kind names one generated workflow.
type Kind string

const (
	Graphs         Kind = "graphs"
	ResponseTime   Kind = "response-time"
	Setup          Kind = "setup"
	StaticSite     Kind = "static-site"
	Summary        Kind = "summary"
	UpdateTemplate Kind = "update-template"
	Updates        Kind = "updates"
	Uptime         Kind = "uptime"
)

// monitorAction is the upstream action whose release tag pins the workflows.
const monitorAction = "upptime/uptime-monitor"

// Param is one key under a step's with/env block. Value is emitted verbatim,
// so it carries its own YAML quoting.
type Param struct {
	Key   string
	Value string
}

// Step is a single job step.
type Step struct {
	Name   string
	Action string
	// Ref pins the action. Empty tracks the resolved monitor release.
	Ref string
	// UsesFirst emits `uses` before `name`.
	UsesFirst bool
	With      []Param
	Env       []Param
}

// Uses renders the action reference for the resolved monitor tag.
func (s Step) Uses(tag string) string {
	ref := s.Ref
	if ref == "" {
		ref = tag
	}
	return s.Action + "@" + ref
}

// Definition describes how a workflow kind differs from the others.
type Definition struct {
	Kind     Kind
	File     string
	Title    string
	Dispatch string
	// ScheduleKey selects the cron override in workflowSchedule. Empty means
	// the workflow is triggered by pushes to PushPaths instead of a schedule.
	ScheduleKey string
	PushPaths   []string
	JobName     string
	// If is an optional job condition, emitted verbatim.
	If    string
	Steps []Step
}

var (
	ghPAT          = Param{Key: "GH_PAT", Value: "${{ secrets.GH_PAT }}"}
	secretsContext = Param{Key: "SECRETS_CONTEXT", Value: "${{ toJson(secrets) }}"}
)

var checkout = Step{
	Name:   "Checkout",
	Action: "actions/checkout",
	Ref:    "v2.3.3",
	With: []Param{
		{Key: "ref", Value: "${{ github.head_ref }}"},
		{Key: "token", Value: "${{ secrets.GH_PAT }}"},
	},
}

func monitorStep(name, command string, env ...Param) Step {
	return Step{
		Name:   name,
		Action: monitorAction,
		With:   []Param{{Key: "command", Value: `"` + command + `"`}},
		Env:    env,
	}
}

var (
	updateTemplateStep = monitorStep("Update template", "update-template", ghPAT)
	responseTimeStep   = monitorStep("Update response time", "response-time", ghPAT, secretsContext)
	readmeStep         = monitorStep("Update summary in README", "readme", ghPAT)
	siteStep           = monitorStep("Generate site", "site", ghPAT)
	pagesDeployStep    = Step{
		Name:      "GitHub Pages Deploy",
		Action:    "maxheld83/ghpages",
		Ref:       "v0.3.0",
		UsesFirst: true,
		Env: []Param{
			{Key: "BUILD_DIR", Value: `"site/status-page/__sapper__/export/"`},
			ghPAT,
		},
	}
)

// definitions lists every workflow in generation order.
var definitions = []Definition{
	{
		Kind:        Graphs,
		File:        "graphs.yml",
		Title:       "Graphs CI",
		Dispatch:    "graphs",
		ScheduleKey: config.KeyGraphs,
		JobName:     "Generate graphs",
		Steps:       []Step{checkout, monitorStep("Generate graphs", "graphs", ghPAT)},
	},
	{
		Kind:        ResponseTime,
		File:        "response-time.yml",
		Title:       "Response Time CI",
		Dispatch:    "response_time",
		ScheduleKey: config.KeyResponseTime,
		JobName:     "Check status",
		Steps:       []Step{checkout, responseTimeStep},
	},
	{
		Kind:      Setup,
		File:      "setup.yml",
		Title:     "Setup CI",
		Dispatch:  "setup",
		PushPaths: []string{config.DefaultPath},
		JobName:   "Setup Upptime",
		Steps: []Step{
			checkout,
			updateTemplateStep,
			responseTimeStep,
			readmeStep,
			{
				Name:   "Generate graphs",
				Action: "benc-uk/workflow-dispatch",
				Ref:    "v1",
				With: []Param{
					{Key: "workflow", Value: "Graphs CI"},
					{Key: "token", Value: "${{ secrets.GH_PAT }}"},
				},
			},
			siteStep,
			pagesDeployStep,
		},
	},
	{
		Kind:        StaticSite,
		File:        "site.yml",
		Title:       "Static Site CI",
		Dispatch:    "static_site",
		ScheduleKey: config.KeyStaticSite,
		JobName:     "Build and deploy site",
		If:          `"!contains(github.event.head_commit.message, '[skip ci]')"`,
		Steps:       []Step{checkout, siteStep, pagesDeployStep},
	},
	{
		Kind:        Summary,
		File:        "summary.yml",
		Title:       "Summary CI",
		Dispatch:    "summary",
		ScheduleKey: config.KeySummary,
		JobName:     "Generate README",
		Steps: []Step{
			checkout,
			readmeStep,
			{
				Name:   "Run readme-repos-list",
				Action: "koj-co/readme-repos-list",
				Ref:    "master",
				With: []Param{
					{Key: "token", Value: "${{ secrets.GH_PAT }}"},
					{Key: "query", Value: `"topic:upptime"`},
					{Key: "size", Value: "20"},
					{Key: "max", Value: "1000"},
					{Key: "one-per-owner", Value: "true"},
				},
			},
		},
	},
	{
		Kind:        UpdateTemplate,
		File:        "update-template.yml",
		Title:       "Update Template CI",
		Dispatch:    "update_template",
		ScheduleKey: config.KeyUpdateTemplate,
		JobName:     "Build",
		// Tracks the monitor's default branch rather than the resolved release.
		Steps: []Step{checkout, withRef(updateTemplateStep, "master")},
	},
	{
		Kind:        Updates,
		File:        "updates.yml",
		Title:       "Updates CI",
		Dispatch:    "updates",
		ScheduleKey: config.KeyUpdates,
		JobName:     "Deploy updates",
		Steps: []Step{
			checkout,
			{Name: "Update code", Action: "upptime/updates", Ref: "master", Env: []Param{ghPAT}},
		},
	},
	{
		Kind:        Uptime,
		File:        "uptime.yml",
		Title:       "Uptime CI",
		Dispatch:    "uptime",
		ScheduleKey: config.KeyUptime,
		JobName:     "Check status",
		Steps:       []Step{checkout, monitorStep("Check endpoint status", "update", ghPAT, secretsContext)},
	},
}

func withRef(s Step, ref string) Step {
	s.Ref = ref
	return s
}

// Kinds returns every workflow kind in generation order.
func Kinds() []Kind {
	kinds := make([]Kind, len(definitions))
	for i, s := range definitions {
		kinds[i] = s.Kind
	}
	return kinds
}

// Lookup returns the definition of kind.
func Lookup(kind Kind) (Definition, bool) {
	for _, s := range definitions {
		if s.Kind == kind {
			return s, true
		}
	}
	return Definition{}, false
}

// ParseKinds converts names to kinds. It accepts kind names and file names
// (with or without .yml); no names selects every kind.
func ParseKinds(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return Kinds(), nil
	}
	kinds := make([]Kind, 0, len(names))
	for _, name := range names {
		k, ok := parseKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown workflow %q (known: %s)", name, knownNames())
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func parseKind(name string) (Kind, bool) {
	name = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".yml")
	for _, s := range definitions {
		if string(s.Kind) == name || strings.TrimSuffix(s.File, ".yml") == name {
			return s.Kind, true
		}
	}
	return "", false
}

func knownNames() string {
	names := make([]string, len(definitions))
	for i, s := range definitions {
		names[i] = string(s.Kind)
	}
	return strings.Join(names, ", ")
}
