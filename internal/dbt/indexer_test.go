package dbt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ealexisaraujo/nao/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findModel(t *testing.T, models []Model, name string) Model {
	t.Helper()
	for _, m := range models {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("model %q not found in %v", name, models)
	return Model{}
}

func modelNames(models []Model) []string {
	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}
	return names
}

func TestIndex_EndToEnd(t *testing.T) {
	project := filepath.Join(t.TempDir(), "repos", "my-repo", "dbt")
	staging := filepath.Join("models", "staging")

	writeFile(t, project, ProjectFile, "name: my_dbt_project\nversion: '1.0.0'")
	writeFile(t, project, filepath.Join(staging, "stg_users.sql"),
		"{{ config(materialized='view') }}\nselect * from {{ source('raw', 'users') }}")
	writeFile(t, project, filepath.Join(staging, "stg_orders.sql"),
		"{{ config(materialized='table') }}\nselect * from {{ ref('stg_users') }}")
	writeFile(t, project, filepath.Join(staging, "_schema.yml"), `
version: 2

sources:
  - name: raw
    schema: RAW_DATA
    tables:
      - name: users
      - name: orders

models:
  - name: stg_users
    description: Staged users table from raw source
  - name: stg_orders
    description: Staged orders with user references
`)

	result := NewIndexer(testutil.NewTestLogger(t)).Index(project)

	require.Len(t, result.Models, 2)
	assert.Equal(t, "my_dbt_project", result.ProjectName)
	assert.Equal(t, []string{"stg_orders", "stg_users"}, modelNames(result.Models))
	assert.False(t, result.HasErrors())

	users := findModel(t, result.Models, "stg_users")
	assert.Equal(t, "models/staging/stg_users.sql", users.Path)
	assert.Equal(t, "view", users.Materialized)
	assert.Empty(t, users.Refs)
	assert.Equal(t, []SourceRef{{Source: "raw", Table: "users"}}, users.Sources)
	assert.Equal(t, "Staged users table from raw source", users.Description)

	orders := findModel(t, result.Models, "stg_orders")
	assert.Equal(t, "table", orders.Materialized)
	assert.Equal(t, []string{"stg_users"}, orders.Refs)

	require.Len(t, result.Sources, 1)
	assert.Equal(t, "raw", result.Sources[0].Name)
	assert.Equal(t, "RAW_DATA", result.Sources[0].Schema)
	assert.Equal(t, []string{"orders", "users"}, result.Sources[0].Tables)
}

func TestIndex_SkipsVendoredDirectories(t *testing.T) {
	project := t.TempDir()
	writeFile(t, project, ProjectFile, "name: test")
	writeFile(t, project, filepath.Join("models", "my_model.sql"),
		"{{ config(materialized='view') }}\nselect 1")
	writeFile(t, project, filepath.Join("models", "dbt_packages", "some_package", "models", "vendor_model.sql"),
		"select 2")
	writeFile(t, project, filepath.Join("models", "target", "compiled.sql"), "select 3")

	result := NewIndexer(nil).Index(project)

	names := modelNames(result.Models)
	assert.Contains(t, names, "my_model")
	assert.NotContains(t, names, "vendor_model")
	assert.NotContains(t, names, "compiled")
}

func TestIndex_MissingModelsDir(t *testing.T) {
	project := t.TempDir()
	writeFile(t, project, ProjectFile, "name: test")

	result := NewIndexer(nil).Index(project)

	assert.Empty(t, result.Models)
	assert.Empty(t, result.Sources)
	assert.False(t, result.HasErrors())
}

func TestIndex_BinaryFileDoesNotAbortScan(t *testing.T) {
	project := t.TempDir()
	writeFile(t, project, ProjectFile, "name: test")
	writeFile(t, project, filepath.Join("models", "good.sql"), "select 1")
	require.NoError(t, os.WriteFile(
		filepath.Join(project, "models", "binary.sql"),
		[]byte{0x00, 0x01, 0x02, 0x03}, 0o644))

	result := NewIndexer(nil).Index(project)

	assert.Contains(t, modelNames(result.Models), "good")
}

func TestIndex_InheritedMaterialization(t *testing.T) {
	project := t.TempDir()
	writeFile(t, project, ProjectFile, `
name: analytics
models:
  analytics:
    +materialized: table
    staging:
      +materialized: view
`)
	writeFile(t, project, filepath.Join("models", "staging", "deep", "stg_a.sql"), "select 1")
	writeFile(t, project, filepath.Join("models", "marts", "mart_b.sql"), "select 1")
	writeFile(t, project, filepath.Join("models", "staging", "stg_c.sql"),
		"{{ config(materialized='incremental') }}\nselect 1")

	result := NewIndexer(nil).Index(project)

	assert.Equal(t, "view", findModel(t, result.Models, "stg_a").Materialized)
	assert.Equal(t, "table", findModel(t, result.Models, "mart_b").Materialized)
	// Inline directive beats the inherited default.
	assert.Equal(t, "incremental", findModel(t, result.Models, "stg_c").Materialized)
}

func TestIndex_LaterSchemaFileWinsOnDescriptionCollision(t *testing.T) {
	project := t.TempDir()
	writeFile(t, project, ProjectFile, "name: test")
	writeFile(t, project, filepath.Join("models", "m.sql"), "select 1")
	writeFile(t, project, filepath.Join("models", "a_schema.yml"), `
models:
  - name: m
    description: first
`)
	writeFile(t, project, filepath.Join("models", "b_schema.yml"), `
models:
  - name: m
    description: second
`)

	result := NewIndexer(nil).Index(project)

	assert.Equal(t, "second", findModel(t, result.Models, "m").Description)
}

func TestIndex_SourcesNotDeduplicatedAcrossFiles(t *testing.T) {
	project := t.TempDir()
	writeFile(t, project, ProjectFile, "name: test")
	writeFile(t, project, filepath.Join("models", "a.yml"), `
sources:
  - name: raw
    schema: A
`)
	writeFile(t, project, filepath.Join("models", "b.yml"), `
sources:
  - name: raw
    schema: B
`)

	result := NewIndexer(nil).Index(project)

	assert.Len(t, result.Sources, 2)
}

func TestIndex_DuplicateModelNamesRetained(t *testing.T) {
	project := t.TempDir()
	writeFile(t, project, ProjectFile, "name: test")
	writeFile(t, project, filepath.Join("models", "staging", "users.sql"), "select 1")
	writeFile(t, project, filepath.Join("models", "marts", "users.sql"), "select 2")

	result := NewIndexer(nil).Index(project)

	assert.Equal(t, []string{"users", "users"}, modelNames(result.Models))
}

func TestIndex_BothYAMLExtensions(t *testing.T) {
	project := t.TempDir()
	writeFile(t, project, ProjectFile, "name: test")
	writeFile(t, project, filepath.Join("models", "m.sql"), "select 1")
	writeFile(t, project, filepath.Join("models", "one.yml"), `
sources:
  - name: from_yml
    schema: S
`)
	writeFile(t, project, filepath.Join("models", "two.yaml"), `
models:
  - name: m
    description: from the yaml extension
`)

	result := NewIndexer(nil).Index(project)

	require.Len(t, result.Sources, 1)
	assert.Equal(t, "from_yml", result.Sources[0].Name)
	assert.Equal(t, "from the yaml extension", findModel(t, result.Models, "m").Description)
}
