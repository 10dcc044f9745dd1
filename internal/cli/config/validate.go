package config

import (
	"fmt"
	"os"
)

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.ProjectDir == "" {
		return fmt.Errorf("project_dir is required")
	}
	if c.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", c.Parallel)
	}
	return nil
}

// ValidateReposDir checks that the repos directory exists. Kept separate
// from Validate so help and version still work outside a project.
func (c *Config) ValidateReposDir() error {
	if _, err := os.Stat(c.ReposDir); os.IsNotExist(err) {
		return fmt.Errorf("repos directory does not exist: %s\nHint: create it or point --repos-dir somewhere else", c.ReposDir)
	}
	return nil
}
