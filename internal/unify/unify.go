// Package unify implements the two output modes: a single merged document
// with a spreadsheet extract of its tables, and one document per distinct
// section title.
package unify

import (
	"fmt"
	"strings"

	"github.com/jvillalba/docunir/internal/catalog"
	"github.com/jvillalba/docunir/internal/docblock"
	"github.com/jvillalba/docunir/internal/docwriter"
	"github.com/jvillalba/docunir/internal/parser"
	"github.com/jvillalba/docunir/internal/section"
	"github.com/jvillalba/docunir/internal/sheet"
)

// Merge mode output names.
const (
	MergedDocName = "unificado.docx"
	TablesName    = "tablas.xlsx"
)

// Input is one named document with its bytes already in memory.
type Input struct {
	Name string
	Data []byte
}

// Options configures a merge or group run.
type Options struct {
	// Levels restricts sections to these heading levels. Empty keeps 1-3.
	Levels []int
	// ExactTitles restricts sections to these titles, compared on the
	// base form.
	ExactTitles []string
	// EnforceWhitelist restricts sections to the catalogue. Off by
	// default.
	EnforceWhitelist bool
	// Catalog is the whitelist enforced when EnforceWhitelist is set.
	// Nil falls back to the built-in catalogue.
	Catalog *catalog.Catalog
	// GroupLevel is the heading level grouped documents are keyed on.
	// Only Group reads it.
	GroupLevel int
}

// Skip records an input that contributed nothing and why.
type Skip struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Result carries the produced artifacts by output name.
type Result struct {
	Files   map[string][]byte
	Skipped []Skip
}

func (o Options) filter(levels []int) section.Filter {
	f := section.Filter{Levels: levels, ExactTitles: o.ExactTitles}
	if o.EnforceWhitelist {
		f.Catalog = o.Catalog
		if f.Catalog == nil {
			f.Catalog = catalog.Default()
		}
	}
	return f
}

func parseInput(in Input) ([]docblock.Block, error) {
	p, err := parser.ForFile(in.Name)
	if err != nil {
		return nil, err
	}
	return p.Parse(in.Data, in.Name)
}

// sectionOwners maps each block index to the range that renders it. Ranges
// arrive in ascending start order, so a nested section claims its span after
// every section containing it and ends up owning it.
func sectionOwners(n int, ranges []docblock.HeadingRange) []int {
	owners := make([]int, n)
	for i := range owners {
		owners[i] = -1
	}
	for ri, r := range ranges {
		for i := r.Start; i < r.End; i++ {
			owners[i] = ri
		}
	}
	return owners
}

// Merge extracts the qualifying sections of every input, in input order,
// into one document, and collects every table cell inside those sections
// into a spreadsheet. When selected sections nest, each block is rendered
// under the innermost section that qualified, so nothing appears twice.
// Inputs that cannot be parsed are reported in Skipped and never abort the
// batch.
func Merge(inputs []Input, opts Options) (*Result, error) {
	doc := docwriter.NewBuilder()
	var records []sheet.Record
	var skipped []Skip
	tableIndex := 0

	for _, in := range inputs {
		blocks, err := parseInput(in)
		if err != nil {
			skipped = append(skipped, Skip{File: in.Name, Reason: err.Error()})
			continue
		}
		ranges := section.ResolveRanges(blocks, opts.filter(opts.Levels))
		owners := sectionOwners(len(blocks), ranges)
		for ri, r := range ranges {
			doc.Heading(r.Level, r.Title)
			for i := r.Start + 1; i < r.End; i++ {
				if owners[i] != ri {
					continue
				}
				switch b := blocks[i]; b.Kind {
				case docblock.Paragraph:
					doc.Paragraph(b.Text)
				case docblock.Table:
					doc.Table(b.Rows)
					tableIndex++
					for rowIdx, row := range b.Rows {
						for colIdx, value := range row {
							records = append(records, sheet.Record{
								Source:     in.Name,
								Title:      r.Title,
								Level:      r.Level,
								TableIndex: tableIndex,
								Row:        rowIdx + 1,
								Col:        colIdx + 1,
								Value:      value,
							})
						}
					}
				}
			}
			doc.Paragraph("")
		}
	}

	docBytes, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", MergedDocName, err)
	}
	tableBytes, err := sheet.Build(records)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", TablesName, err)
	}
	return &Result{
		Files:   map[string][]byte{MergedDocName: docBytes, TablesName: tableBytes},
		Skipped: skipped,
	}, nil
}

// Group produces one document per distinct base title found at
// opts.GroupLevel, each aggregating every occurrence of that title across
// all inputs in input order. Output names derive from the first form of the
// title seen; titles whose sanitized names collide get a numeric suffix.
func Group(inputs []Input, opts Options) (*Result, error) {
	if opts.GroupLevel < 1 || opts.GroupLevel > 3 {
		return nil, fmt.Errorf("group level must be between 1 and 3, got %d", opts.GroupLevel)
	}

	type bucket struct {
		display string
		doc     *docwriter.Builder
	}
	buckets := make(map[string]*bucket)
	var order []string
	var skipped []Skip

	for _, in := range inputs {
		blocks, err := parseInput(in)
		if err != nil {
			skipped = append(skipped, Skip{File: in.Name, Reason: err.Error()})
			continue
		}
		for _, r := range section.ResolveRanges(blocks, opts.filter([]int{opts.GroupLevel})) {
			bk := buckets[r.Base]
			if bk == nil {
				bk = &bucket{display: r.Title, doc: docwriter.NewBuilder()}
				buckets[r.Base] = bk
				order = append(order, r.Base)
			}
			bk.doc.Heading(r.Level, r.Title)
			for i := r.Start + 1; i < r.End; i++ {
				switch b := blocks[i]; b.Kind {
				case docblock.Paragraph:
					bk.doc.Paragraph(b.Text)
				case docblock.Table:
					bk.doc.Table(b.Rows)
				}
			}
			bk.doc.Paragraph("")
		}
	}

	files := make(map[string][]byte, len(buckets))
	for _, base := range order {
		bk := buckets[base]
		data, err := bk.doc.Bytes()
		if err != nil {
			return nil, fmt.Errorf("build document for %q: %w", bk.display, err)
		}
		name := sanitizeTitle(bk.display) + ".docx"
		for n := 2; ; n++ {
			if _, taken := files[name]; !taken {
				break
			}
			name = fmt.Sprintf("%s_%d.docx", sanitizeTitle(bk.display), n)
		}
		files[name] = data
	}
	return &Result{Files: files, Skipped: skipped}, nil
}

// Headings lists every heading of every readable input in document order,
// covering levels 1-6.
func Headings(inputs []Input) (map[string][]docblock.HeadingInfo, []Skip) {
	files := make(map[string][]docblock.HeadingInfo, len(inputs))
	var skipped []Skip
	for _, in := range inputs {
		blocks, err := parseInput(in)
		if err != nil {
			skipped = append(skipped, Skip{File: in.Name, Reason: err.Error()})
			continue
		}
		files[in.Name] = docblock.Outline(blocks)
	}
	return files, skipped
}

// sanitizeTitle makes a section title usable as a file name.
func sanitizeTitle(title string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == ' ':
			return r
		}
		return '_'
	}, title)
	mapped = strings.TrimSpace(mapped)
	if len(mapped) > 80 {
		mapped = strings.TrimSpace(mapped[:80])
	}
	if mapped == "" {
		return "seccion"
	}
	return mapped
}
