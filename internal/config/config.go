package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// StageTable names every stage bundle a deployment knows about. Paths
// are relative to DataDir.
type StageTable struct {
	DataDir     string       `toml:"data_dir"`
	CorsOrigins []string     `toml:"cors_origins"`
	Stages      []StageEntry `toml:"stages"`
}

// StageEntry names the three streams of one stage bundle. Empty paths
// derive from Name plus the canonical extension.
type StageEntry struct {
	Name     string `toml:"name"`
	Map      string `toml:"map"`
	Attrib   string `toml:"attrib"`
	Entities string `toml:"entities"`
}

func LoadStageTable(path string) (StageTable, error) {
	var cfg StageTable
	if err := loadToml(path, &cfg); err != nil {
		return StageTable{}, err
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data/Stage"
	}
	for i := range cfg.Stages {
		cfg.Stages[i].applyDefaults()
	}
	if err := ValidateStageTable(cfg); err != nil {
		return StageTable{}, err
	}
	return cfg, nil
}

// DefaultEntry derives the entry for a stage that follows the
// canonical bundle naming.
func DefaultEntry(name string) StageEntry {
	e := StageEntry{Name: name}
	e.applyDefaults()
	return e
}

func (e *StageEntry) applyDefaults() {
	if e.Map == "" {
		e.Map = e.Name + ".pxm"
	}
	if e.Attrib == "" {
		e.Attrib = e.Name + ".pxa"
	}
	if e.Entities == "" {
		e.Entities = e.Name + ".pxe"
	}
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateStageTable(cfg StageTable) error {
	if strings.TrimSpace(cfg.DataDir) == "" {
		return fmt.Errorf("stage table missing data_dir")
	}
	seen := make(map[string]struct{}, len(cfg.Stages))
	for i, entry := range cfg.Stages {
		if err := ValidateStageEntry(entry); err != nil {
			return fmt.Errorf("stage[%d] invalid: %w", i, err)
		}
		if _, dup := seen[entry.Name]; dup {
			return fmt.Errorf("stage[%d] duplicate name: %s", i, entry.Name)
		}
		seen[entry.Name] = struct{}{}
	}
	return nil
}

func ValidateStageEntry(entry StageEntry) error {
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(entry.Map) == "" {
		return fmt.Errorf("map path is required")
	}
	if strings.TrimSpace(entry.Entities) == "" {
		return fmt.Errorf("entities path is required")
	}
	return nil
}
