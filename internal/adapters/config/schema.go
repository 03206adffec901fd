package config

// Rigfile represents the structure of the rig.yaml build definition.
type Rigfile struct {
	Version string               `yaml:"version"`
	Default string               `yaml:"default"`
	Targets map[string]TargetDTO `yaml:"targets"`
}

// TargetDTO represents a target definition in the configuration.
type TargetDTO struct {
	Description string    `yaml:"description"`
	Hidden      bool      `yaml:"hidden"`
	DependsOn   []string  `yaml:"dependsOn"`
	Steps       []StepDTO `yaml:"steps"`
}

// StepDTO represents one task of a target. Exactly one of Run or Checksum
// must be set.
type StepDTO struct {
	Name        string            `yaml:"name"`
	Run         []string          `yaml:"run"`
	Checksum    []string          `yaml:"checksum"`
	Mode        string            `yaml:"mode"`
	WorkingDir  string            `yaml:"workingDir"`
	Environment map[string]string `yaml:"environment"`
	DryRunSafe  bool              `yaml:"dryRunSafe"`
	LogDuration bool              `yaml:"logDuration"`
}
