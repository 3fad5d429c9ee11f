// Package catalog holds the admissible-heading catalogue consulted when
// whitelist enforcement is requested.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/jvillalba/docunir/internal/heading"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var defaultCatalog = mustParse(defaultYAML)

// Catalog lists the admissible titles for heading levels 1-3. It is
// immutable after construction and safe for shared read-only use.
type Catalog struct {
	byLevel [4]map[string]bool // indexed 1..3, keyed by normalized base title
}

type catalogFile struct {
	Level1 []string `yaml:"level1"`
	Level2 []string `yaml:"level2"`
	Level3 []string `yaml:"level3"`
}

// Default returns the embedded institutional catalogue.
func Default() *Catalog {
	return defaultCatalog
}

// Parse builds a catalogue from YAML carrying level1/level2/level3 title
// lists. Titles are stored as normalized base titles.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := &Catalog{}
	c.byLevel[1] = titleSet(f.Level1)
	c.byLevel[2] = titleSet(f.Level2)
	c.byLevel[3] = titleSet(f.Level3)
	return c, nil
}

// Load reads a catalogue from a YAML file on disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Allowed reports whether a heading passes the catalogue. Only levels 1-3
// can pass; the text is reduced to its base title before lookup.
func (c *Catalog) Allowed(level int, text string) bool {
	if level < 1 || level > 3 {
		return false
	}
	return c.byLevel[level][heading.BaseTitle(text)]
}

func titleSet(titles []string) map[string]bool {
	set := make(map[string]bool, len(titles))
	for _, t := range titles {
		if bt := heading.BaseTitle(t); bt != "" {
			set[bt] = true
		}
	}
	return set
}

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic("catalog: invalid embedded default: " + err.Error())
	}
	return c
}
