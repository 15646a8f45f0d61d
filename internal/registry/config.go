// Package registry holds the worker capability table.
//
// Workers are declared in a YAML config file; their order in the file is
// their registration order, which is the final dispatch tiebreak.
package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aurda012/cursor10x/internal/models"
)

// Config is the worker capability table.
type Config struct {
	// Workers in registration order.
	Workers []models.WorkerProfile `yaml:"workers"`
	// Default names the worker that receives tasks no rule matches.
	Default string `yaml:"default"`
}

// DefaultConfig returns the built-in team.
func DefaultConfig() *Config {
	return &Config{
		Workers: []models.WorkerProfile{
			{
				ID:   "frontend-developer",
				Name: "Frontend Developer",
				Rules: []models.CapabilityRule{
					{PathPattern: "*.tsx", Precedence: 1},
					{PathPattern: "*.jsx", Precedence: 1},
					{PathPattern: "*.css", Precedence: 1},
					{PathPattern: "*.scss", Precedence: 1},
					{PathPattern: "*.html", Precedence: 1},
					{PathPattern: "components/**", Precedence: 2},
					{Keywords: []string{"ui", "component", "styling", "layout"}, Precedence: 3},
				},
			},
			{
				ID:   "backend-developer",
				Name: "Backend Developer",
				Rules: []models.CapabilityRule{
					{PathPattern: "*.sql", Precedence: 1},
					{PathPattern: "api/**", Precedence: 2},
					{PathPattern: "server/**", Precedence: 2},
					{Keywords: []string{"api", "endpoint", "database", "schema", "migration"}, Precedence: 3},
				},
			},
			{
				ID:   "devops-engineer",
				Name: "DevOps Engineer",
				Rules: []models.CapabilityRule{
					{PathPattern: "Dockerfile", Precedence: 1},
					{PathPattern: "*.yml", Precedence: 1},
					{PathPattern: "*.yaml", Precedence: 1},
					{PathPattern: ".github/**", Precedence: 2},
					{Keywords: []string{"deploy", "pipeline", "infrastructure", "docker"}, Precedence: 3},
				},
			},
			{
				ID:   "qa-engineer",
				Name: "QA Engineer",
				Rules: []models.CapabilityRule{
					{PathPattern: "*_test.*", Precedence: 1},
					{PathPattern: "tests/**", Precedence: 2},
					{Keywords: []string{"test", "coverage", "regression", "e2e"}, Precedence: 3},
				},
			},
			{
				ID:   "architect",
				Name: "Architect",
				Rules: []models.CapabilityRule{
					{PathPattern: "*.md", Precedence: 1},
					{PathPattern: "docs/**", Precedence: 2},
					{Keywords: []string{"design", "architecture", "rfc"}, Precedence: 3},
				},
			},
			{
				ID:   "project-coordinator",
				Name: "Project Coordinator",
			},
		},
		Default: "project-coordinator",
	}
}

// LoadConfig loads a capability table from a YAML file. A missing file
// yields the built-in defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading agents config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing agents config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid agents config: %w", err)
	}

	return cfg, nil
}

// DefaultConfigPath returns ~/.cursor10x/agents.yaml, or a relative
// fallback when the home directory is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cursor10x", "agents.yaml")
	}
	return filepath.Join(home, ".cursor10x", "agents.yaml")
}

// SaveConfig writes the capability table to a YAML file, creating parent
// directories if needed.
func SaveConfig(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding agents config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing agents config: %w", err)
	}
	return nil
}

// Validate checks worker ids are unique, rules are well-formed, and the
// default worker, when set, is registered.
func (c *Config) Validate() error {
	if len(c.Workers) == 0 {
		return fmt.Errorf("at least one worker must be registered")
	}

	seen := make(map[string]bool, len(c.Workers))
	for _, w := range c.Workers {
		if w.ID == "" {
			return fmt.Errorf("worker id must not be empty")
		}
		if seen[w.ID] {
			return fmt.Errorf("duplicate worker id %q", w.ID)
		}
		seen[w.ID] = true

		for i, rule := range w.Rules {
			if err := rule.Validate(); err != nil {
				return fmt.Errorf("worker %s rule %d: %w", w.ID, i, err)
			}
		}
	}

	if c.Default != "" && !seen[c.Default] {
		return fmt.Errorf("default worker %q is not registered", c.Default)
	}
	return nil
}

// Profiles returns the workers in registration order.
func (c *Config) Profiles() []models.WorkerProfile {
	return c.Workers
}

// DefaultWorker returns the fallback worker id, or "" when none is set.
func (c *Config) DefaultWorker() string {
	return c.Default
}
