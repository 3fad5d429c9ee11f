// Package section locates heading-delimited sections inside a parsed block
// sequence and decides which of them qualify for export.
package section

import (
	"github.com/jvillalba/docunir/internal/catalog"
	"github.com/jvillalba/docunir/internal/docblock"
	"github.com/jvillalba/docunir/internal/heading"
)

// Filter narrows which candidate sections qualify. All populated criteria
// must hold at once. The zero value keeps every candidate.
type Filter struct {
	// Levels keeps only headings at these levels. Empty means levels 1-3.
	Levels []int
	// ExactTitles keeps only headings whose base form matches one of these
	// titles. Empty disables the check.
	ExactTitles []string
	// Catalog keeps only headings the whitelist allows at their level.
	// Nil disables the check.
	Catalog *catalog.Catalog
}

// ResolveRanges finds every qualifying section in the block sequence.
// Candidates are heading blocks at levels 1-3. A section runs from its
// heading up to the next candidate heading at the same or a shallower
// level, or to the end of the document. Filters decide which candidates
// qualify but never move a boundary: a filtered-out heading still ends the
// sections above it.
func ResolveRanges(blocks []docblock.Block, f Filter) []docblock.HeadingRange {
	var candidates []int
	for i, b := range blocks {
		if b.Kind == docblock.Heading && b.Level >= 1 && b.Level <= 3 {
			candidates = append(candidates, i)
		}
	}

	levels := map[int]bool{1: true, 2: true, 3: true}
	if len(f.Levels) > 0 {
		levels = make(map[int]bool, len(f.Levels))
		for _, l := range f.Levels {
			levels[l] = true
		}
	}
	exact := make(map[string]bool, len(f.ExactTitles))
	for _, t := range f.ExactTitles {
		exact[heading.BaseTitle(t)] = true
	}

	var ranges []docblock.HeadingRange
	for ci, start := range candidates {
		b := blocks[start]
		if !levels[b.Level] {
			continue
		}
		base := heading.BaseTitle(b.Text)
		if len(exact) > 0 && !exact[base] {
			continue
		}
		if f.Catalog != nil && !f.Catalog.Allowed(b.Level, b.Text) {
			continue
		}

		end := len(blocks)
		for _, next := range candidates[ci+1:] {
			if blocks[next].Level <= b.Level {
				end = next
				break
			}
		}
		ranges = append(ranges, docblock.HeadingRange{
			Start: start,
			End:   end,
			Level: b.Level,
			Title: b.Text,
			Base:  base,
		})
	}
	return ranges
}
