package parser

import (
	"testing"

	"github.com/jvillalba/docunir/internal/docblock"
)

func TestBlocksFromLines_FontSizeOutline(t *testing.T) {
	lines := []pdfLine{
		{page: 1, text: "Plan estrategico", size: 24},
		{page: 1, text: "Introduccion", size: 16},
		{page: 1, text: "El presente documento", size: 11},
		{page: 1, text: "describe las lineas de trabajo.", size: 11},
		{page: 2, text: "Diagnostico", size: 16},
		{page: 2, text: "Analisis de la situacion actual.", size: 11},
	}

	blocks := blocksFromLines(lines)
	want := []docblock.Block{
		{Kind: docblock.Heading, Level: 1, Text: "Plan estrategico"},
		{Kind: docblock.Heading, Level: 2, Text: "Introduccion"},
		{Kind: docblock.Paragraph, Text: "El presente documento describe las lineas de trabajo."},
		{Kind: docblock.Heading, Level: 2, Text: "Diagnostico"},
		{Kind: docblock.Paragraph, Text: "Analisis de la situacion actual."},
	}
	if len(blocks) != len(want) {
		t.Fatalf("expected %d blocks, got %d: %+v", len(want), len(blocks), blocks)
	}
	for i, w := range want {
		got := blocks[i]
		if got.Kind != w.Kind || got.Level != w.Level || got.Text != w.Text {
			t.Errorf("block %d: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestBlocksFromLines_SingleSizeHasNoHeadings(t *testing.T) {
	lines := []pdfLine{
		{page: 1, text: "todo el texto", size: 12},
		{page: 1, text: "al mismo tamano", size: 12},
	}
	blocks := blocksFromLines(lines)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 paragraph, got %+v", blocks)
	}
	if blocks[0].Kind != docblock.Paragraph {
		t.Errorf("expected paragraph, got %+v", blocks[0])
	}
	if blocks[0].Text != "todo el texto al mismo tamano" {
		t.Errorf("unexpected paragraph text %q", blocks[0].Text)
	}
}

func TestBlocksFromLines_ParagraphBreaksAtPageBoundary(t *testing.T) {
	lines := []pdfLine{
		{page: 1, text: "fin de pagina", size: 12},
		{page: 2, text: "inicio de pagina", size: 12},
	}
	blocks := blocksFromLines(lines)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 paragraphs, got %+v", blocks)
	}
}

func TestHeadingSizes_AtMostThreeLevels(t *testing.T) {
	lines := []pdfLine{
		{text: "body", size: 10}, {text: "body", size: 10}, {text: "body", size: 10},
		{text: "h1", size: 28},
		{text: "h2", size: 22},
		{text: "h3", size: 18},
		{text: "h4", size: 14},
	}
	levels := headingSizes(lines)
	if len(levels) != 3 {
		t.Fatalf("expected 3 heading sizes, got %v", levels)
	}
	if levels[28] != 1 || levels[22] != 2 || levels[18] != 3 {
		t.Errorf("unexpected level mapping %v", levels)
	}
	if _, ok := levels[14]; ok {
		t.Errorf("size 14 should not map to a heading level: %v", levels)
	}
	if _, ok := levels[10]; ok {
		t.Errorf("body size should not map to a heading level: %v", levels)
	}
}

func TestRoundSize_HalfPointBuckets(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{11.0, 11.0},
		{11.2, 11.0},
		{11.3, 11.5},
		{11.74, 11.5},
		{11.76, 12.0},
	}
	for _, tt := range tests {
		if got := roundSize(tt.in); got != tt.want {
			t.Errorf("roundSize(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}
