// Package scoring derives the lead score from the lead's status.
// The catalog is a fixed embedded table; scoring is a pure lookup with no
// hidden state, recomputed on every status transition.
package scoring

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed statuses.yaml
var catalogYAML []byte

type catalog struct {
	Default  int            `yaml:"default"`
	Statuses map[string]int `yaml:"statuses"`
}

var table catalog

func init() {
	if err := yaml.Unmarshal(catalogYAML, &table); err != nil {
		panic("scoring: invalid embedded status catalog: " + err.Error())
	}
}

// Score returns the 0-100 lead score for the given status, or the catalog
// default for statuses outside the table.
func Score(status string) int {
	if score, ok := table.Statuses[status]; ok {
		return score
	}
	return table.Default
}

// KnownStatuses returns the statuses present in the catalog.
func KnownStatuses() []string {
	out := make([]string, 0, len(table.Statuses))
	for status := range table.Statuses {
		out = append(out, status)
	}
	return out
}
