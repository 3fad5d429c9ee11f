package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/jvillalba/docunir/internal/docblock"
	"github.com/jvillalba/docunir/internal/heading"
)

// DOCXParser handles .docx files.
type DOCXParser struct{}

func (p *DOCXParser) Parse(data []byte, filename string) ([]docblock.Block, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var blocks []docblock.Block
	for _, item := range doc.Document.Body.Items {
		switch v := item.(type) {
		case *docx.Paragraph:
			text := docxParagraphText(v)
			if text == "" {
				continue
			}
			if level := docxHeadingLevel(v); level > 0 {
				blocks = append(blocks, docblock.Block{Kind: docblock.Heading, Level: level, Text: text})
			} else {
				blocks = append(blocks, docblock.Block{Kind: docblock.Paragraph, Text: text})
			}
		case *docx.Table:
			if rows := docxTableRows(v); rows != nil {
				blocks = append(blocks, docblock.Block{Kind: docblock.Table, Rows: rows})
			}
		}
	}
	return blocks, nil
}

// docxHeadingLevel classifies the paragraph style. Styles whose label maps
// outside levels 1-6 do not count as headings; the text still comes through
// as a plain paragraph.
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	level, ok := heading.Classify(para.Properties.Style.Val)
	if !ok || level < 1 || level > 6 {
		return 0
	}
	return level
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// docxTableRows reads every cell's trimmed text into a row-major grid.
// Tables whose cells are all empty are dropped, so nil means no table.
func docxTableRows(tbl *docx.Table) [][]string {
	rows := make([][]string, 0, len(tbl.TableRows))
	hasContent := false
	for _, tr := range tbl.TableRows {
		cells := make([]string, 0, len(tr.TableCells))
		for _, tc := range tr.TableCells {
			text := docxCellText(tc)
			if text != "" {
				hasContent = true
			}
			cells = append(cells, text)
		}
		rows = append(rows, cells)
	}
	if !hasContent {
		return nil
	}
	return rows
}

func docxCellText(cell *docx.WTableCell) string {
	var buf strings.Builder
	for i, p := range cell.Paragraphs {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(docxParagraphText(p))
	}
	return strings.TrimSpace(buf.String())
}
