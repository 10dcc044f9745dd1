package dbt

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// placeholder renders absent optional fields so every section has the same
// shape regardless of what was extracted.
const placeholder = "—"

const timestampLayout = "2006-01-02T15:04:05"

// GenerateManifest renders the model manifest report. Models are rendered
// in the order given; the indexer has already sorted them by name. Field
// order within a section is fixed: path, materialized, refs, sources,
// description.
func GenerateManifest(models []Model, repoName, projectPath, projectName string, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# dbt Models Index: %s\n", repoName)
	b.WriteString("\n")
	fmt.Fprintf(&b, "- **Project name:** %s\n", projectName)
	fmt.Fprintf(&b, "- **dbt project path:** %s\n", projectPath)
	fmt.Fprintf(&b, "- **Total models:** %d\n", len(models))
	fmt.Fprintf(&b, "- **Indexed at:** %s\n", generatedAt.UTC().Format(timestampLayout))
	b.WriteString("\n---\n")

	for _, model := range models {
		b.WriteString("\n")
		fmt.Fprintf(&b, "### %s\n", model.Name)
		fmt.Fprintf(&b, "- **path:** %s\n", model.Path)
		fmt.Fprintf(&b, "- **materialized:** %s\n", orPlaceholder(model.Materialized))

		refs := placeholder
		if len(model.Refs) > 0 {
			refs = strings.Join(model.Refs, ", ")
		}
		fmt.Fprintf(&b, "- **refs:** %s\n", refs)

		sources := placeholder
		if len(model.Sources) > 0 {
			parts := make([]string, len(model.Sources))
			for i, s := range model.Sources {
				parts[i] = s.Source + "." + s.Table
			}
			sources = strings.Join(parts, ", ")
		}
		fmt.Fprintf(&b, "- **sources:** %s\n", sources)

		fmt.Fprintf(&b, "- **description:** %s\n", orPlaceholder(model.Description))
	}

	return b.String()
}

// GenerateSources renders the source listing report, one section per
// source sorted by name. Field order is fixed: database, schema, tables.
func GenerateSources(sources []Source, repoName string, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# dbt Sources: %s\n", repoName)
	b.WriteString("\n")
	fmt.Fprintf(&b, "- **Total sources:** %d\n", len(sources))
	fmt.Fprintf(&b, "- **Indexed at:** %s\n", generatedAt.UTC().Format(timestampLayout))
	b.WriteString("\n---\n")

	ordered := make([]Source, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Name < ordered[j].Name
	})

	for _, src := range ordered {
		b.WriteString("\n")
		fmt.Fprintf(&b, "### %s\n", src.Name)
		fmt.Fprintf(&b, "- **Database:** %s\n", orPlaceholder(src.Database))
		fmt.Fprintf(&b, "- **Schema:** %s\n", src.Schema)

		tables := placeholder
		if len(src.Tables) > 0 {
			tables = strings.Join(src.Tables, ", ")
		}
		fmt.Fprintf(&b, "- **Tables:** %s\n", tables)
	}

	return b.String()
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
