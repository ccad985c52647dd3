// Package schema provides the column templates of the four standard output
// tables. Templates are loaded once from an embedded YAML document so the
// shared column sets cannot drift from code changes unnoticed.
package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templateFiles embed.FS

// Table names of the four standard output tables.
const (
	TableBrood      = "brood"
	TableCapture    = "capture"
	TableIndividual = "individual"
	TableLocation   = "location"
)

var (
	templates     map[string][]string
	templatesOnce sync.Once
	templatesErr  error
)

func loadTemplates() {
	data, err := fs.ReadFile(templateFiles, "templates.yaml")
	if err != nil {
		templatesErr = fmt.Errorf("error reading embedded templates: %w", err)
		return
	}
	if err := yaml.Unmarshal(data, &templates); err != nil {
		templatesErr = fmt.Errorf("error unmarshaling templates: %w", err)
		return
	}
	for _, name := range []string{TableBrood, TableCapture, TableIndividual, TableLocation} {
		if len(templates[name]) == 0 {
			templatesErr = fmt.Errorf("embedded template missing table %q", name)
			return
		}
	}
}

// Columns returns the ordered column names for the given output table.
func Columns(table string) ([]string, error) {
	templatesOnce.Do(loadTemplates)
	if templatesErr != nil {
		return nil, templatesErr
	}
	cols, ok := templates[table]
	if !ok {
		return nil, fmt.Errorf("unknown output table %q", table)
	}
	// Copy so callers cannot mutate the template.
	out := make([]string, len(cols))
	copy(out, cols)
	return out, nil
}

// Tables returns the output table names in their fixed export order.
func Tables() []string {
	return []string{TableBrood, TableCapture, TableIndividual, TableLocation}
}
