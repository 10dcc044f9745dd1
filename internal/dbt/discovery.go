package dbt

import (
	"os"
	"path/filepath"
)

// nestedProjectDir is checked when a repository keeps its dbt project in a
// subdirectory instead of the repository root.
const nestedProjectDir = "dbt"

// FindProjects returns one Project per immediate child of reposDir that
// contains a dbt project, in lexicographic order by directory name. A
// dbt_project.yml at the repository root wins over a nested dbt/ layout;
// at most one project root is chosen per repository.
func FindProjects(reposDir string) []Project {
	entries, err := os.ReadDir(reposDir)
	if err != nil {
		return nil
	}

	var results []Project
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		repoPath := filepath.Join(reposDir, entry.Name())

		if fileExists(filepath.Join(repoPath, ProjectFile)) {
			results = append(results, Project{RepoName: entry.Name(), Path: repoPath})
			continue
		}
		nested := filepath.Join(repoPath, nestedProjectDir)
		if fileExists(filepath.Join(nested, ProjectFile)) {
			results = append(results, Project{RepoName: entry.Name(), Path: nested})
		}
	}

	return results
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
