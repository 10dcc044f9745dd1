package dbt

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the configuration filename that marks a dbt project root.
const ProjectFile = "dbt_project.yml"

// rootMaterializationKey is the reserved defaults key for the project-level
// materialization, applied when no directory along a model's path matches.
const rootMaterializationKey = "_root_"

// projectNamePattern recovers the project name from a dbt_project.yml that
// does not survive YAML parsing even after Jinja stripping.
var projectNamePattern = regexp.MustCompile(`(?m)^name:\s*['"]?([^'"#` + "\n" + `]+)`)

// ReadProjectConfig loads dbt_project.yml from a project directory. A
// missing file yields an empty config. When the stripped document still
// fails to parse as a mapping, only the project name is recovered, via
// regex on the raw text.
func ReadProjectConfig(projectPath string) map[string]any {
	raw, err := readFileLossy(filepath.Join(projectPath, ProjectFile))
	if err != nil {
		return map[string]any{}
	}

	var doc map[string]any
	if err := yaml.Unmarshal([]byte(StripJinja(raw)), &doc); err == nil && doc != nil {
		return doc
	}

	result := map[string]any{}
	if m := projectNamePattern.FindStringSubmatch(raw); m != nil {
		result["name"] = strings.Trim(strings.TrimSpace(m[1]), `'"`)
	}
	return result
}

// ProjectName returns the name declared in a project config, falling back
// to the repository directory name.
func ProjectName(cfg map[string]any, repoName string) string {
	if name := stringValue(cfg["name"]); name != "" {
		return name
	}
	return repoName
}

// DefaultMaterializations flattens the models: tree of dbt_project.yml into
// a map keyed by directory name. The child key's own name is the map key
// regardless of where it sits in the hierarchy, so two subtrees reusing a
// directory name collapse to one entry. A project node's own materialized
// value becomes the reserved root default.
func DefaultMaterializations(cfg map[string]any) map[string]string {
	result := make(map[string]string)

	modelsCfg, ok := cfg["models"].(map[string]any)
	if !ok {
		return result
	}

	for _, projectNode := range modelsCfg {
		node, ok := projectNode.(map[string]any)
		if !ok {
			continue
		}
		if mat := nodeMaterialized(node); mat != "" {
			result[rootMaterializationKey] = mat
		}
		walkMaterializationConfig(node, result)
	}

	return result
}

func walkMaterializationConfig(node map[string]any, result map[string]string) {
	for key, value := range node {
		if strings.HasPrefix(key, "+") {
			continue
		}
		child, ok := value.(map[string]any)
		if !ok {
			continue
		}
		if mat := nodeMaterialized(child); mat != "" {
			result[key] = mat
		}
		walkMaterializationConfig(child, result)
	}
}

// nodeMaterialized reads a node's materialized override, prefixed or not.
func nodeMaterialized(node map[string]any) string {
	if mat := stringValue(node["+materialized"]); mat != "" {
		return mat
	}
	return stringValue(node["materialized"])
}

// ResolveMaterialization walks from a model file's directory up to and
// including the models directory, returning the first directory-name match
// in defaults. Closest ancestor wins; the reserved root default is the
// final fallback. An empty string means no default applies.
func ResolveMaterialization(sqlPath, modelsDir string, defaults map[string]string) string {
	modelsDir = filepath.Clean(modelsDir)
	dir := filepath.Clean(filepath.Dir(sqlPath))

	for dir == modelsDir || strings.HasPrefix(dir, modelsDir+string(os.PathSeparator)) {
		if mat, ok := defaults[filepath.Base(dir)]; ok {
			return mat
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return defaults[rootMaterializationKey]
}
