package dbt

import (
	"regexp"
	"sort"
)

// SQL extraction patterns. These are deliberately textual: the goal is the
// token shapes dbt users actually write, not a Jinja or SQL parser.
var (
	// {{ ref('model') }} or {{ ref("model") }}, argument may wrap lines.
	refPattern = regexp.MustCompile(`\{\{\s*ref\(\s*['"]([^'"]+)['"]\s*\)\s*\}\}`)

	// {{ source('src', 'table') }} with either quote style.
	sourcePattern = regexp.MustCompile(`\{\{\s*source\(\s*['"]([^'"]+)['"]\s*,\s*['"]([^'"]+)['"]\s*\)\s*\}\}`)

	// materialized=... inside a config() call, other arguments tolerated.
	configMaterializedPattern = regexp.MustCompile(`(?s)\{\{\s*config\([^)]*materialized\s*=\s*['"]([^'"]+)['"]`)
)

// ParseDependencies extracts ref() and source() calls from SQL content.
// Both result slices are deduplicated and sorted; order of appearance in
// the SQL is not preserved.
func ParseDependencies(content string) ([]string, []SourceRef) {
	refSet := make(map[string]struct{})
	for _, m := range refPattern.FindAllStringSubmatch(content, -1) {
		refSet[m[1]] = struct{}{}
	}
	refs := make([]string, 0, len(refSet))
	for r := range refSet {
		refs = append(refs, r)
	}
	sort.Strings(refs)

	srcSet := make(map[SourceRef]struct{})
	for _, m := range sourcePattern.FindAllStringSubmatch(content, -1) {
		srcSet[SourceRef{Source: m[1], Table: m[2]}] = struct{}{}
	}
	sources := make([]SourceRef, 0, len(srcSet))
	for s := range srcSet {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Source != sources[j].Source {
			return sources[i].Source < sources[j].Source
		}
		return sources[i].Table < sources[j].Table
	})

	return refs, sources
}

// ParseConfig extracts config() properties from SQL content. Only the
// materialized key is recognized; the first occurrence wins.
func ParseConfig(content string) map[string]string {
	result := make(map[string]string)
	if m := configMaterializedPattern.FindStringSubmatch(content); m != nil {
		result["materialized"] = m[1]
	}
	return result
}
