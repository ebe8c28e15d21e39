package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the repository-relative location of the user configuration.
const DefaultPath = ".upptimerc.yml"

// Built-in fallbacks used when the configuration does not override a value.
const (
	DefaultRunner          = "ubuntu-18.04"
	GraphsSchedule         = "0 0 * * *"
	ResponseTimeSchedule   = "0 23 * * *"
	StaticSiteSchedule     = "0 1 * * *"
	SummarySchedule        = "0 0 * * *"
	UpdateTemplateSchedule = "0 0 * * *"
	UpdatesSchedule        = "0 3 * * *"
	UptimeSchedule         = "*/5 * * * *"
)

// Schedule keys as they appear under workflowSchedule in .upptimerc.yml.
const (
	KeyGraphs         = "graphs"
	KeyResponseTime   = "responseTime"
	KeyStaticSite     = "staticSite"
	KeySummary        = "summary"
	KeyUpdateTemplate = "updateTemplate"
	KeyUpdates        = "updates"
	KeyUptime         = "uptime"
)

var defaultSchedules = map[string]string{
	KeyGraphs:         GraphsSchedule,
	KeyResponseTime:   ResponseTimeSchedule,
	KeyStaticSite:     StaticSiteSchedule,
	KeySummary:        SummarySchedule,
	KeyUpdateTemplate: UpdateTemplateSchedule,
	KeyUpdates:        UpdatesSchedule,
	KeyUptime:         UptimeSchedule,
}

// Config holds the parts of .upptimerc.yml that shape the generated workflows.
// Other keys in the file belong to the monitor itself and are ignored.
type Config struct {
	WorkflowSchedule WorkflowSchedule `yaml:"workflowSchedule"`
	Runner           string           `yaml:"runner"`
}

// WorkflowSchedule holds optional cron overrides per workflow.
type WorkflowSchedule struct {
	Graphs         string `yaml:"graphs"`
	ResponseTime   string `yaml:"responseTime"`
	StaticSite     string `yaml:"staticSite"`
	Summary        string `yaml:"summary"`
	UpdateTemplate string `yaml:"updateTemplate"`
	Updates        string `yaml:"updates"`
	Uptime         string `yaml:"uptime"`
}

// byKey returns the override stored for key, or "" when unset or unknown.
func (s WorkflowSchedule) byKey(key string) string {
	switch key {
	case KeyGraphs:
		return s.Graphs
	case KeyResponseTime:
		return s.ResponseTime
	case KeyStaticSite:
		return s.StaticSite
	case KeySummary:
		return s.Summary
	case KeyUpdateTemplate:
		return s.UpdateTemplate
	case KeyUpdates:
		return s.Updates
	case KeyUptime:
		return s.Uptime
	}
	return ""
}

// RunnerLabel returns the configured runner or DefaultRunner.
func (c *Config) RunnerLabel() string {
	if c.Runner == "" {
		return DefaultRunner
	}
	return c.Runner
}

// Schedule returns the cron expression for a schedule key: the override
// verbatim when set, otherwise the key's built-in default.
func (c *Config) Schedule(key string) string {
	if v := c.WorkflowSchedule.byKey(key); v != "" {
		return v
	}
	return DefaultSchedule(key)
}

// DefaultSchedule returns the built-in cron expression for a schedule key.
func DefaultSchedule(key string) string {
	return defaultSchedules[key]
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Validate checks every schedule override parses as a five-field cron expression.
func (c *Config) Validate() error {
	for _, key := range []string{KeyGraphs, KeyResponseTime, KeyStaticSite, KeySummary, KeyUpdateTemplate, KeyUpdates, KeyUptime} {
		v := c.WorkflowSchedule.byKey(key)
		if v == "" {
			continue
		}
		if _, err := cronParser.Parse(v); err != nil {
			return fmt.Errorf("workflowSchedule.%s: invalid cron expression %q: %w", key, v, err)
		}
	}
	return nil
}

// LoadError reports that the configuration could not be read or is invalid.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading config %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads and validates the configuration at path. A missing file yields
// an empty configuration so every value falls back to its default.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := mergeFile(cfg, path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return cfg, nil
}

func mergeFile(dst *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	return nil
}

// Provider supplies the configuration used for a generation run.
type Provider interface {
	Config(ctx context.Context) (*Config, error)
}

// FileProvider loads the configuration from a file on every call.
type FileProvider struct {
	Path string
}

func (p FileProvider) Config(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Path: p.Path, Err: err}
	}
	path := p.Path
	if path == "" {
		path = DefaultPath
	}
	return Load(path)
}

// Static is a Provider returning a fixed configuration.
type Static struct {
	Cfg *Config
}

func (s Static) Config(context.Context) (*Config, error) {
	if s.Cfg == nil {
		return &Config{}, nil
	}
	return s.Cfg, nil
}
