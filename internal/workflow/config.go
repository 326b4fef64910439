package workflow

import (
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
	"gopkg.in/yaml.v3"
)

// TaskDef is a configured checklist entry.
type TaskDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// PhaseConfig fixes the required tasks of a phase and seeds its optional list.
type PhaseConfig struct {
	Required        []TaskDef `yaml:"required"`
	DefaultOptional []TaskDef `yaml:"optional"`
}

// Config is the checklist layout shared by every project.
type Config struct {
	Intake    PhaseConfig `yaml:"intake"`
	Execution PhaseConfig `yaml:"execution"`
}

// DefaultConfig returns the built-in checklist: intake requires materials and
// blueprints, execution requirements come entirely from subtasks.
func DefaultConfig() Config {
	return Config{
		Intake: PhaseConfig{
			Required: []TaskDef{
				{ID: "intake-materials", Name: "Materials"},
				{ID: "intake-blueprints", Name: "Blueprints"},
			},
			DefaultOptional: []TaskDef{
				{ID: "intake-validate", Name: "Validate"},
			},
		},
	}
}

// Phase returns the configuration for one phase.
func (c Config) Phase(name domain.PhaseName) PhaseConfig {
	if name == domain.PhaseExecution {
		return c.Execution
	}
	return c.Intake
}

// IsDefaultOptional reports whether id names a configured default optional task.
func (c Config) IsDefaultOptional(phase domain.PhaseName, id string) bool {
	for _, def := range c.Phase(phase).DefaultOptional {
		if def.ID == id {
			return true
		}
	}
	return false
}

// IsFixedRequired reports whether a task name matches a configured required task.
func (c Config) IsFixedRequired(phase domain.PhaseName, name string) bool {
	key := domain.TaskKey(name)
	for _, def := range c.Phase(phase).Required {
		if domain.TaskKey(def.Name) == key {
			return true
		}
	}
	return false
}

// Validate rejects blank names and duplicate keys within a phase.
func (c Config) Validate() error {
	for _, phase := range domain.Phases {
		pc := c.Phase(phase)
		seen := make(map[string]bool)
		defs := append(append([]TaskDef(nil), pc.Required...), pc.DefaultOptional...)
		for _, def := range defs {
			key := domain.TaskKey(def.Name)
			if key == "" {
				return fmt.Errorf("%s: task %q has a blank name", phase, def.ID)
			}
			if seen[key] {
				return fmt.Errorf("%s: duplicate task %q", phase, def.Name)
			}
			seen[key] = true
		}
	}
	return nil
}

// LoadConfig reads a YAML checklist layout. Missing ids are derived from the
// phase and task name.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading workflow config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML checklist layout.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing workflow config: %w", err)
	}
	fillIDs(domain.PhaseIntake, &cfg.Intake)
	fillIDs(domain.PhaseExecution, &cfg.Execution)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid workflow config: %w", err)
	}
	return cfg, nil
}

func fillIDs(phase domain.PhaseName, pc *PhaseConfig) {
	for i := range pc.Required {
		pc.Required[i].Name = strings.TrimSpace(pc.Required[i].Name)
		if pc.Required[i].ID == "" {
			pc.Required[i].ID = requiredTaskID(phase, pc.Required[i].Name)
		}
	}
	for i := range pc.DefaultOptional {
		pc.DefaultOptional[i].Name = strings.TrimSpace(pc.DefaultOptional[i].Name)
		if pc.DefaultOptional[i].ID == "" {
			pc.DefaultOptional[i].ID = optionalTaskID(phase, pc.DefaultOptional[i].Name)
		}
	}
}

func requiredTaskID(phase domain.PhaseName, name string) string {
	return string(phase) + "-req-" + domain.TaskKey(name)
}

func optionalTaskID(phase domain.PhaseName, name string) string {
	return string(phase) + "-opt-" + domain.TaskKey(name)
}
