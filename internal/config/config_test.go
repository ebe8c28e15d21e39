package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	if cfg.RunnerLabel() != DefaultRunner {
		t.Errorf("expected runner %q, got %q", DefaultRunner, cfg.RunnerLabel())
	}
	cases := map[string]string{
		KeyGraphs:         GraphsSchedule,
		KeyResponseTime:   ResponseTimeSchedule,
		KeyStaticSite:     StaticSiteSchedule,
		KeySummary:        SummarySchedule,
		KeyUpdateTemplate: UpdateTemplateSchedule,
		KeyUpdates:        UpdatesSchedule,
		KeyUptime:         UptimeSchedule,
	}
	for key, want := range cases {
		if got := cfg.Schedule(key); got != want {
			t.Errorf("Schedule(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestOverridesAreVerbatim(t *testing.T) {
	cfg := &Config{
		WorkflowSchedule: WorkflowSchedule{Uptime: "*/10 * * * *"},
		Runner:           "ubuntu-latest",
	}
	if got := cfg.Schedule(KeyUptime); got != "*/10 * * * *" {
		t.Errorf("expected override, got %q", got)
	}
	if got := cfg.Schedule(KeyGraphs); got != GraphsSchedule {
		t.Errorf("expected graphs default, got %q", got)
	}
	if cfg.RunnerLabel() != "ubuntu-latest" {
		t.Errorf("expected runner override, got %q", cfg.RunnerLabel())
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty config should be valid: %v", err)
	}

	cfg.WorkflowSchedule.Summary = "every day"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for malformed cron expression")
	}

	cfg.WorkflowSchedule.Summary = "0 0 * * * *"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for six-field cron expression")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".upptimerc.yml")
	content := []byte(`owner: octo
repo: status
sites:
  - name: Example
    url: https://example.com
workflowSchedule:
  uptime: "*/10 * * * *"
  staticSite: "0 2 * * *"
runner: ubuntu-latest
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WorkflowSchedule.Uptime != "*/10 * * * *" {
		t.Errorf("expected uptime override, got %q", cfg.WorkflowSchedule.Uptime)
	}
	if cfg.WorkflowSchedule.StaticSite != "0 2 * * *" {
		t.Errorf("expected staticSite override, got %q", cfg.WorkflowSchedule.StaticSite)
	}
	if cfg.Runner != "ubuntu-latest" {
		t.Errorf("expected runner override, got %q", cfg.Runner)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/path/.upptimerc.yml")
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.RunnerLabel() != DefaultRunner {
		t.Errorf("expected default runner, got %q", cfg.RunnerLabel())
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "workflowSchedule: [unterminated\n"},
		{name: "invalid cron", content: "workflowSchedule:\n  graphs: \"not a cron\"\n"},
		{name: "wrong type", content: "workflowSchedule: 12\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".yml")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("expected *LoadError, got %v", err)
			}
			if loadErr.Path != path {
				t.Errorf("expected path %q, got %q", path, loadErr.Path)
			}
		})
	}
}

func TestFileProviderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FileProvider{Path: "whatever.yml"}.Config(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStaticProvider(t *testing.T) {
	cfg, err := Static{}.Config(context.Background())
	if err != nil || cfg == nil {
		t.Fatalf("expected empty config, got %v, %v", cfg, err)
	}

	want := &Config{Runner: "macos-latest"}
	got, _ := Static{Cfg: want}.Config(context.Background())
	if got != want {
		t.Error("expected the configured pointer back")
	}
}
