package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jvillalba/docunir/internal/docblock"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files.
type HTMLParser struct{}

func (p *HTMLParser) Parse(data []byte, filename string) ([]docblock.Block, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var blocks []docblock.Block
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				if text := textContent(n); text != "" {
					blocks = append(blocks, docblock.Block{Kind: docblock.Heading, Level: level, Text: text})
				}
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "table":
				if rows := htmlTableRows(n); rows != nil {
					blocks = append(blocks, docblock.Block{Kind: docblock.Table, Rows: rows})
				}
				return
			case "p", "li", "blockquote", "pre":
				if text := textContent(n); text != "" {
					blocks = append(blocks, docblock.Block{Kind: docblock.Paragraph, Text: text})
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	// Walk <body> when present, the whole document otherwise.
	body := findBody(doc)
	if body == nil {
		body = doc
	}
	walk(body)
	return blocks, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

// htmlTableRows reads tr/th/td grids, including rows nested under thead and
// tbody. Returns nil when every cell is empty.
func htmlTableRows(table *html.Node) [][]string {
	var rows [][]string
	hasContent := false
	var findRows func(*html.Node)
	findRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					text := textContent(c)
					if text != "" {
						hasContent = true
					}
					cells = append(cells, text)
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findRows(c)
		}
	}
	findRows(table)
	if !hasContent {
		return nil
	}
	return rows
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
