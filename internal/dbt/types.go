// Package dbt analyzes dbt projects without running dbt: it discovers
// projects, extracts refs/sources/config from SQL models and source
// definitions and descriptions from schema YAML, resolves directory-level
// materialization defaults from dbt_project.yml, and renders markdown
// reports.
package dbt

// Model is one indexed dbt model (one .sql file under models/).
type Model struct {
	// Name is the file's base name without extension. Two files with the
	// same base name in different subdirectories both keep that name; no
	// deduplication happens.
	Name string

	// Path is relative to the project's parent directory.
	Path string

	// Materialized is empty when neither an inline config() directive nor
	// an inherited default from dbt_project.yml supplies one.
	Materialized string

	// Refs holds referenced model names, deduplicated and sorted.
	Refs []string

	// Sources holds referenced (source, table) pairs, deduplicated and sorted.
	Sources []SourceRef

	// Description comes from a schema YAML file, looked up by model name.
	Description string
}

// SourceRef is a (source name, table name) pair from a source() call.
type SourceRef struct {
	Source string
	Table  string
}

// Source is one external data origin declared in a schema YAML file.
type Source struct {
	Name string

	// Database may be empty: some projects template it per target.
	Database string

	Schema string

	// Tables is deduplicated and sorted.
	Tables []string
}

// Project is a discovered dbt project inside a repos directory.
type Project struct {
	// RepoName is the repository directory name, which may differ from the
	// project name declared in dbt_project.yml.
	RepoName string

	// Path is the directory containing dbt_project.yml.
	Path string
}
