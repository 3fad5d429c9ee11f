// Package docwriter assembles Word documents from headings, paragraphs and
// tables.
package docwriter

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"
)

// Builder accumulates document content in order and serializes it to .docx
// bytes.
type Builder struct {
	doc *docx.Docx
}

func NewBuilder() *Builder {
	return &Builder{doc: docx.New().WithDefaultTheme()}
}

// Heading writes a styled heading. Levels outside 1-6 are clamped, matching
// what word processors accept.
func (b *Builder) Heading(level int, text string) {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	para := b.doc.AddParagraph()
	para.Properties = &docx.ParagraphProperties{
		Style: &docx.Style{Val: fmt.Sprintf("Heading%d", level)},
	}
	para.AddText(text)
}

// Paragraph writes a plain paragraph. Empty text still writes a paragraph,
// which Word renders as a blank line.
func (b *Builder) Paragraph(text string) {
	para := b.doc.AddParagraph()
	if text != "" {
		para.AddText(text)
	}
}

// Table writes a grid sized by its first row. Longer rows are truncated and
// shorter rows leave their trailing cells empty.
func (b *Builder) Table(rows [][]string) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}
	cols := len(rows[0])
	tbl := b.doc.AddTable(len(rows), cols, 0, nil)
	for ri, row := range rows {
		for ci := 0; ci < cols; ci++ {
			para := tbl.TableRows[ri].TableCells[ci].AddParagraph()
			if ci < len(row) && row[ci] != "" {
				para.AddText(row[ci])
			}
		}
	}
}

// Bytes serializes the accumulated document.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := b.doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize docx: %w", err)
	}
	return buf.Bytes(), nil
}
