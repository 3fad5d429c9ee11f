package parser

import (
	"bytes"
	"strings"

	"github.com/jvillalba/docunir/internal/docblock"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. The GFM table
// extension is enabled so pipe tables come through as table blocks.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(data []byte, filename string) ([]docblock.Block, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(data))

	var blocks []docblock.Block
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		blocks = appendMarkdownBlocks(blocks, n, data)
	}
	return blocks, nil
}

func appendMarkdownBlocks(blocks []docblock.Block, n ast.Node, src []byte) []docblock.Block {
	switch node := n.(type) {
	case *ast.Heading:
		if txt := strings.TrimSpace(string(node.Text(src))); txt != "" {
			blocks = append(blocks, docblock.Block{Kind: docblock.Heading, Level: node.Level, Text: txt})
		}
	case *extast.Table:
		if rows := markdownTableRows(node, src); rows != nil {
			blocks = append(blocks, docblock.Block{Kind: docblock.Table, Rows: rows})
		}
	case *ast.List:
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			if txt := markdownText(item, src); txt != "" {
				blocks = append(blocks, docblock.Block{Kind: docblock.Paragraph, Text: txt})
			}
		}
	case *ast.Blockquote:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			blocks = appendMarkdownBlocks(blocks, c, src)
		}
	default:
		if txt := markdownText(n, src); txt != "" {
			blocks = append(blocks, docblock.Block{Kind: docblock.Paragraph, Text: txt})
		}
	}
	return blocks
}

// markdownText flattens a block node to plain text. Code blocks keep their
// literal lines; everything else uses the inline text content.
func markdownText(n ast.Node, src []byte) string {
	switch node := n.(type) {
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			buf.Write(lines.At(i).Value(src))
		}
		return strings.TrimSpace(buf.String())
	case *ast.ListItem:
		var parts []string
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if t := markdownText(c, src); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, " ")
	default:
		return strings.TrimSpace(string(n.Text(src)))
	}
}

// markdownTableRows reads a GFM table into a row-major grid. The header row
// is the first row of the grid. Returns nil when every cell is empty.
func markdownTableRows(tbl *extast.Table, src []byte) [][]string {
	var rows [][]string
	hasContent := false
	for row := tbl.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			txt := strings.TrimSpace(string(cell.Text(src)))
			if txt != "" {
				hasContent = true
			}
			cells = append(cells, txt)
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	if !hasContent {
		return nil
	}
	return rows
}
