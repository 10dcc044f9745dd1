package dbt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindProjects_RootLayout(t *testing.T) {
	repos := t.TempDir()
	writeFile(t, repos, filepath.Join("my-repo", ProjectFile), "name: test")

	projects := FindProjects(repos)

	require.Len(t, projects, 1)
	assert.Equal(t, "my-repo", projects[0].RepoName)
	assert.Equal(t, filepath.Join(repos, "my-repo"), projects[0].Path)
}

func TestFindProjects_NestedLayout(t *testing.T) {
	repos := t.TempDir()
	writeFile(t, repos, filepath.Join("my-repo", "dbt", ProjectFile), "name: test")

	projects := FindProjects(repos)

	require.Len(t, projects, 1)
	assert.Equal(t, "my-repo", projects[0].RepoName)
	assert.Equal(t, filepath.Join(repos, "my-repo", "dbt"), projects[0].Path)
}

func TestFindProjects_RootTakesPrecedence(t *testing.T) {
	repos := t.TempDir()
	writeFile(t, repos, filepath.Join("my-repo", ProjectFile), "name: root")
	writeFile(t, repos, filepath.Join("my-repo", "dbt", ProjectFile), "name: nested")

	projects := FindProjects(repos)

	require.Len(t, projects, 1)
	assert.Equal(t, filepath.Join(repos, "my-repo"), projects[0].Path)
}

func TestFindProjects_NoProjects(t *testing.T) {
	repos := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repos, "some-repo"), 0o755))

	assert.Empty(t, FindProjects(repos))
}

func TestFindProjects_SkipsFiles(t *testing.T) {
	repos := t.TempDir()
	writeFile(t, repos, "README.md", "hello")

	assert.Empty(t, FindProjects(repos))
}

func TestFindProjects_MissingReposDir(t *testing.T) {
	assert.Empty(t, FindProjects(filepath.Join(t.TempDir(), "missing")))
}

func TestFindProjects_LexicographicOrder(t *testing.T) {
	repos := t.TempDir()
	writeFile(t, repos, filepath.Join("zeta", ProjectFile), "name: z")
	writeFile(t, repos, filepath.Join("alpha", ProjectFile), "name: a")
	writeFile(t, repos, filepath.Join("mid", "dbt", ProjectFile), "name: m")

	projects := FindProjects(repos)

	require.Len(t, projects, 3)
	assert.Equal(t, "alpha", projects[0].RepoName)
	assert.Equal(t, "mid", projects[1].RepoName)
	assert.Equal(t, "zeta", projects[2].RepoName)
}
