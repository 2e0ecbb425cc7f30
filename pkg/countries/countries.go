// Package countries maps the ISO 3166-1 alpha-3 codes stored with each
// reservation to display names. KPI tables keep the codes; renaming happens
// only when a table is served to the dashboard.
package countries

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed countries.yaml
var countriesYAML []byte

// Lookup resolves alpha-3 country codes to display names.
type Lookup struct {
	names map[string]string
}

// NewLookup parses the embedded code table.
func NewLookup() (*Lookup, error) {
	var names map[string]string
	if err := yaml.Unmarshal(countriesYAML, &names); err != nil {
		return nil, fmt.Errorf("parsing country table: %w", err)
	}
	return &Lookup{names: names}, nil
}

// Name returns the display name for a code, or the code itself when it is
// not in the table. The raw dataset contains a handful of codes with no ISO
// assignment; passing them through unchanged keeps the series complete.
func (l *Lookup) Name(code string) string {
	if name, ok := l.names[code]; ok {
		return name
	}
	return code
}
