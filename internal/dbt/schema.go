package dbt

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// loadYAMLMapping reads a schema file, strips Jinja, and parses the result
// as a top-level YAML mapping. Any parse failure or non-mapping document
// yields nil: a broken schema file means "no facts", never an error.
func loadYAMLMapping(path string) map[string]any {
	raw, err := readFileLossy(path)
	if err != nil {
		return nil
	}
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(StripJinja(raw)), &doc); err != nil {
		return nil
	}
	return doc
}

// ParseSources extracts source definitions from a dbt schema YAML file.
// Entries that are not mappings or lack a name are skipped silently.
func ParseSources(path string) []Source {
	doc := loadYAMLMapping(path)
	if doc == nil {
		return nil
	}

	var results []Source
	entries, _ := doc["sources"].([]any)
	for _, entry := range entries {
		src, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		name := stringValue(src["name"])
		if name == "" {
			continue
		}

		database := ""
		if raw, ok := src["database"].(string); ok {
			// After Jinja stripping, a templated multiline value may leave
			// duplicate branch lines behind. Keep the first non-empty one.
			for _, line := range strings.Split(raw, "\n") {
				if trimmed := strings.TrimSpace(line); trimmed != "" {
					database = trimmed
					break
				}
			}
		}

		tableSet := make(map[string]struct{})
		tableEntries, _ := src["tables"].([]any)
		for _, t := range tableEntries {
			tbl, ok := t.(map[string]any)
			if !ok {
				continue
			}
			if tableName := stringValue(tbl["name"]); tableName != "" {
				tableSet[tableName] = struct{}{}
			}
		}
		tables := make([]string, 0, len(tableSet))
		for t := range tableSet {
			tables = append(tables, t)
		}
		sort.Strings(tables)

		results = append(results, Source{
			Name:     name,
			Database: database,
			Schema:   stringValue(src["schema"]),
			Tables:   tables,
		})
	}

	return results
}

// ParseDescriptions extracts a model name -> description mapping from a dbt
// schema YAML file. Descriptions that are Jinja doc() lookups rather than
// literal text are excluded: the reference cannot be resolved without a
// template engine.
func ParseDescriptions(path string) map[string]string {
	doc := loadYAMLMapping(path)
	if doc == nil {
		return map[string]string{}
	}

	result := make(map[string]string)
	entries, _ := doc["models"].([]any)
	for _, entry := range entries {
		model, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name := stringValue(model["name"])
		desc, _ := model["description"].(string)
		if name != "" && desc != "" && !strings.HasPrefix(desc, "{{") {
			result[name] = strings.TrimSpace(desc)
		}
	}

	return result
}

// stringValue returns v when it is a non-empty string, otherwise "".
func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
