package section

import (
	"testing"

	"github.com/jvillalba/docunir/internal/catalog"
	"github.com/jvillalba/docunir/internal/docblock"
)

func h(level int, text string) docblock.Block {
	return docblock.Block{Kind: docblock.Heading, Level: level, Text: text}
}

func p(text string) docblock.Block {
	return docblock.Block{Kind: docblock.Paragraph, Text: text}
}

func TestResolveRanges_BoundariesAtSameOrShallowerLevel(t *testing.T) {
	blocks := []docblock.Block{
		h(1, "Uno"),       // 0
		p("texto uno"),    // 1
		h(2, "Uno punto"), // 2
		p("texto anidado"),
		h(1, "Dos"), // 4
		p("texto dos"),
	}

	ranges := ResolveRanges(blocks, Filter{})
	want := []docblock.HeadingRange{
		{Start: 0, End: 4, Level: 1, Title: "Uno", Base: "uno"},
		{Start: 2, End: 4, Level: 2, Title: "Uno punto", Base: "uno punto"},
		{Start: 4, End: 6, Level: 1, Title: "Dos", Base: "dos"},
	}
	if len(ranges) != len(want) {
		t.Fatalf("expected %d ranges, got %+v", len(want), ranges)
	}
	for i, w := range want {
		if ranges[i] != w {
			t.Errorf("range %d: expected %+v, got %+v", i, w, ranges[i])
		}
	}
}

func TestResolveRanges_NestedSectionSharesEnd(t *testing.T) {
	blocks := []docblock.Block{
		h(1, "A"),
		h(2, "B"),
		p("x"),
		h(1, "C"),
	}

	ranges := ResolveRanges(blocks, Filter{})
	if len(ranges) != 3 {
		t.Fatalf("expected 3 ranges, got %+v", ranges)
	}
	if ranges[0].Start != 0 || ranges[0].End != 3 {
		t.Errorf("outer section: expected [0,3), got [%d,%d)", ranges[0].Start, ranges[0].End)
	}
	if ranges[1].Start != 1 || ranges[1].End != 3 {
		t.Errorf("inner section: expected [1,3), got [%d,%d)", ranges[1].Start, ranges[1].End)
	}
	if ranges[2].Start != 3 || ranges[2].End != 4 {
		t.Errorf("last section: expected [3,4), got [%d,%d)", ranges[2].Start, ranges[2].End)
	}
}

func TestResolveRanges_FilteredHeadingStillEndsSections(t *testing.T) {
	blocks := []docblock.Block{
		h(2, "Seleccionado"),
		p("cuerpo"),
		h(1, "Excluido"),
		p("fuera"),
	}

	ranges := ResolveRanges(blocks, Filter{Levels: []int{2}})
	if len(ranges) != 1 {
		t.Fatalf("expected 1 range, got %+v", ranges)
	}
	if ranges[0].Start != 0 || ranges[0].End != 2 {
		t.Errorf("expected [0,2), got [%d,%d)", ranges[0].Start, ranges[0].End)
	}
}

func TestResolveRanges_DeepHeadingsNeverCandidates(t *testing.T) {
	blocks := []docblock.Block{
		h(3, "Detalle"),
		p("uno"),
		h(4, "Sub detalle"),
		p("dos"),
	}

	ranges := ResolveRanges(blocks, Filter{})
	if len(ranges) != 1 {
		t.Fatalf("expected 1 range, got %+v", ranges)
	}
	// The level-4 heading neither qualifies nor ends the level-3 section.
	if ranges[0].End != 4 {
		t.Errorf("expected section to run to the end, got End=%d", ranges[0].End)
	}
}

func TestResolveRanges_ExactTitlesMatchBaseForm(t *testing.T) {
	blocks := []docblock.Block{
		h(1, "12. Introducción"),
		p("uno"),
		h(1, "Conclusiones"),
		p("dos"),
	}

	ranges := ResolveRanges(blocks, Filter{ExactTitles: []string{"INTRODUCCION"}})
	if len(ranges) != 1 {
		t.Fatalf("expected 1 range, got %+v", ranges)
	}
	if ranges[0].Title != "12. Introducción" {
		t.Errorf("expected original title kept, got %q", ranges[0].Title)
	}
	if ranges[0].Base != "introduccion" {
		t.Errorf("expected base form, got %q", ranges[0].Base)
	}
}

func TestResolveRanges_ConjunctiveFilters(t *testing.T) {
	blocks := []docblock.Block{
		h(1, "Introducción"),
		p("uno"),
		h(2, "Introducción"),
		p("dos"),
	}

	// Right title, wrong level: nothing qualifies.
	ranges := ResolveRanges(blocks, Filter{Levels: []int{3}, ExactTitles: []string{"Introducción"}})
	if len(ranges) != 0 {
		t.Fatalf("expected no ranges, got %+v", ranges)
	}

	// Both criteria met by the level-2 occurrence only.
	ranges = ResolveRanges(blocks, Filter{Levels: []int{2}, ExactTitles: []string{"Introducción"}})
	if len(ranges) != 1 || ranges[0].Start != 2 {
		t.Fatalf("expected only the level-2 section, got %+v", ranges)
	}
}

func TestResolveRanges_CatalogFilter(t *testing.T) {
	blocks := []docblock.Block{
		h(1, "Introducción"),
		p("uno"),
		h(1, "Apartado inventado"),
		p("dos"),
	}

	ranges := ResolveRanges(blocks, Filter{Catalog: catalog.Default()})
	if len(ranges) != 1 {
		t.Fatalf("expected 1 range, got %+v", ranges)
	}
	if ranges[0].Base != "introduccion" {
		t.Errorf("expected the whitelisted section, got %+v", ranges[0])
	}
}

func TestResolveRanges_EmptyLevelsMeansDefault(t *testing.T) {
	blocks := []docblock.Block{
		h(1, "A"),
		h(2, "B"),
		h(3, "C"),
	}

	all := ResolveRanges(blocks, Filter{})
	if len(all) != 3 {
		t.Fatalf("expected all three levels selected, got %+v", all)
	}
}

func TestResolveRanges_NoBlocks(t *testing.T) {
	if ranges := ResolveRanges(nil, Filter{}); len(ranges) != 0 {
		t.Errorf("expected no ranges, got %+v", ranges)
	}
}
