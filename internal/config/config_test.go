package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadStageTableDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "stagectl.toml")
	content := `
data_dir = "assets/stages"
cors_origins = ["http://localhost:3000"]

[[stages]]
name = "cave01"
map = "custom/cave01.pxm"

[[stages]]
name = "weed"
	`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadStageTable(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DataDir != "assets/stages" {
		t.Fatalf("unexpected data dir: %q", cfg.DataDir)
	}
	if len(cfg.Stages) != 2 {
		t.Fatalf("expected two stages, got %d", len(cfg.Stages))
	}
	if cfg.Stages[0].Map != "custom/cave01.pxm" {
		t.Fatalf("explicit map path overridden: %q", cfg.Stages[0].Map)
	}
	if cfg.Stages[0].Attrib != "cave01.pxa" || cfg.Stages[0].Entities != "cave01.pxe" {
		t.Fatalf("unexpected derived paths: %+v", cfg.Stages[0])
	}
	if cfg.Stages[1].Map != "weed.pxm" || cfg.Stages[1].Attrib != "weed.pxa" || cfg.Stages[1].Entities != "weed.pxe" {
		t.Fatalf("unexpected derived paths: %+v", cfg.Stages[1])
	}
}

func TestLoadStageTableRejectsDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stagectl.toml")
	content := `
[[stages]]
name = "cave01"

[[stages]]
name = "cave01"
	`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadStageTable(path); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestValidateStageEntryRequiresName(t *testing.T) {
	if err := ValidateStageEntry(StageEntry{Map: "a.pxm", Entities: "a.pxe"}); err == nil {
		t.Fatalf("expected error for missing name")
	}
}

func TestTemplateRoundTripsThroughLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stagectl.toml")

	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite existing config")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("overwrite template: %v", err)
	}

	cfg, err := LoadStageTable(path)
	if err != nil {
		t.Fatalf("template must load cleanly: %v", err)
	}
	if len(cfg.Stages) == 0 {
		t.Fatalf("template has no stages")
	}
	if cfg.Stages[len(cfg.Stages)-1].Map == "" {
		t.Fatalf("defaults not applied to template entries")
	}
}
