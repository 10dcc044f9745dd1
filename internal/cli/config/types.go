// Package config loads nao's tool configuration from its config file,
// environment variables, and CLI flags.
package config

import (
	"github.com/ealexisaraujo/nao/internal/warehouse"
)

// Default values applied before any other configuration source.
const (
	DefaultReposDir = "repos"
	DefaultIndexDir = "dbt-index"
	DefaultParallel = 1
)

// Config is the resolved tool configuration. Relative paths have already
// been resolved against ProjectDir by the loader.
type Config struct {
	// ProjectDir is the nao project folder: the directory holding the
	// repos/ checkout tree and receiving the dbt-index/ output.
	ProjectDir string `koanf:"project_dir"`

	ReposDir string `koanf:"repos_dir"`
	IndexDir string `koanf:"index_dir"`

	// Parallel caps concurrent project scans during sync.
	Parallel int `koanf:"parallel"`

	Verbose bool `koanf:"verbose"`

	Warehouse warehouse.Config `koanf:"warehouse"`
}
