package dbt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadProjectConfig_Valid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectFile, `
name: my_dbt_project
version: '1.0.0'
models:
  my_dbt_project:
    staging:
      +materialized: view
`)

	cfg := ReadProjectConfig(dir)

	assert.Equal(t, "my_dbt_project", cfg["name"])
	assert.Contains(t, cfg, "models")
}

func TestReadProjectConfig_MissingFile(t *testing.T) {
	assert.Empty(t, ReadProjectConfig(t.TempDir()))
}

func TestReadProjectConfig_RegexFallback(t *testing.T) {
	dir := t.TempDir()
	// Tab indentation keeps this invalid even after Jinja stripping.
	writeFile(t, dir, ProjectFile, "name: 'my_project'\nmodels:\n\tbroken: true\n")

	cfg := ReadProjectConfig(dir)

	assert.Equal(t, "my_project", cfg["name"])
	assert.NotContains(t, cfg, "models")
}

func TestProjectName_Fallback(t *testing.T) {
	assert.Equal(t, "declared", ProjectName(map[string]any{"name": "declared"}, "repo"))
	assert.Equal(t, "repo", ProjectName(map[string]any{}, "repo"))
}

func TestDefaultMaterializations_Flattening(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectFile, `
name: analytics
models:
  analytics:
    +materialized: table
    staging:
      +materialized: view
      events:
        materialized: incremental
    marts:
      +schema: reporting
`)

	defaults := DefaultMaterializations(ReadProjectConfig(dir))

	assert.Equal(t, "view", defaults["staging"])
	assert.Equal(t, "incremental", defaults["events"])
	assert.Equal(t, "table", defaults[rootMaterializationKey])
	assert.NotContains(t, defaults, "marts")
	assert.NotContains(t, defaults, "+materialized")
}

func TestDefaultMaterializations_NonMapping(t *testing.T) {
	assert.Empty(t, DefaultMaterializations(map[string]any{"models": "not-a-map"}))
	assert.Empty(t, DefaultMaterializations(map[string]any{}))
}

func TestResolveMaterialization_ClosestAncestorWins(t *testing.T) {
	modelsDir := filepath.Join("proj", "models")
	defaults := map[string]string{
		"staging": "view",
		"events":  "incremental",
	}

	sqlPath := filepath.Join(modelsDir, "staging", "events", "daily", "page_views.sql")
	assert.Equal(t, "incremental", ResolveMaterialization(sqlPath, modelsDir, defaults))

	sqlPath = filepath.Join(modelsDir, "staging", "users.sql")
	assert.Equal(t, "view", ResolveMaterialization(sqlPath, modelsDir, defaults))
}

func TestResolveMaterialization_RootFallback(t *testing.T) {
	modelsDir := filepath.Join("proj", "models")
	defaults := map[string]string{
		"staging":              "view",
		rootMaterializationKey: "table",
	}

	sqlPath := filepath.Join(modelsDir, "marts", "revenue.sql")
	assert.Equal(t, "table", ResolveMaterialization(sqlPath, modelsDir, defaults))
}

func TestResolveMaterialization_NoDefault(t *testing.T) {
	modelsDir := filepath.Join("proj", "models")
	sqlPath := filepath.Join(modelsDir, "marts", "revenue.sql")

	assert.Empty(t, ResolveMaterialization(sqlPath, modelsDir, map[string]string{"staging": "view"}))
}

func TestResolveMaterialization_TwoLevelsBelowOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectFile, `
name: analytics
models:
  analytics:
    staging:
      +materialized: view
`)
	defaults := DefaultMaterializations(ReadProjectConfig(dir))
	require.NotEmpty(t, defaults)

	modelsDir := filepath.Join(dir, "models")
	sqlPath := filepath.Join(modelsDir, "staging", "intermediate", "deep", "model.sql")
	assert.Equal(t, "view", ResolveMaterialization(sqlPath, modelsDir, defaults))
}
