package cmd

import (
	"strings"
	"testing"

	"github.com/adrianmross/regionsel/pkg/config"
)

func TestCurrentOutputs(t *testing.T) {
	cfg := config.Config{
		Selections: []config.Selection{{
			Name:    "web",
			Mode:    config.ModeMulti,
			Regions: []string{"us-east", "de-fra-2"},
		}},
		CurrentSelection: "web",
	}
	cfgPath := writeFixture(t, cfg, nil)

	got, err := runCmd(newCurrentCmd(), "current", "--config", cfgPath)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got != "web\n" {
		t.Fatalf("want web, got %q", got)
	}

	got, err = runCmd(newCurrentCmd(), "current", "-r", "--config", cfgPath)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got != "us-east,de-fra-2\n" {
		t.Fatalf("want region ids, got %q", got)
	}
}

func TestCurrentNoCurrentSelection(t *testing.T) {
	cfgPath := writeFixture(t, config.Config{}, nil)

	_, err := runCmd(newCurrentCmd(), "current", "--config", cfgPath)
	if err == nil || !strings.Contains(err.Error(), "no current selection set") {
		t.Fatalf("expected no current selection error, got %v", err)
	}
}
