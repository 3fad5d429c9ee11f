package parser

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jvillalba/docunir/internal/docblock"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. PDFs carry no named paragraph styles, so an
// approximate outline is recovered from font sizes: the dominant size on the
// page is taken as body text and up to three distinct larger sizes become
// heading levels 1-3, largest first.
type PDFParser struct{}

const (
	pdfRowTolerance = 2.0 // max Y distance for grouping runs into one line
	pdfSpaceFactor  = 0.3 // X gap relative to font size treated as a word break
	pdfSpaceGap     = 3.0 // absolute X gap treated as a word break
)

type pdfLine struct {
	page int
	text string
	size float64
}

func (p *PDFParser) Parse(data []byte, filename string) ([]docblock.Block, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var lines []pdfLine
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, ln := range pageLines(page) {
			ln.page = i
			lines = append(lines, ln)
		}
	}
	return blocksFromLines(lines), nil
}

// pageLines groups a page's positioned text runs into visual lines, top to
// bottom. Content panics on malformed streams; such pages read as empty.
func pageLines(page pdflib.Page) (lines []pdfLine) {
	defer func() {
		if recover() != nil {
			lines = nil
		}
	}()

	type row struct {
		yMin, yMax float64
		runs       []pdflib.Text
	}
	var rows []*row
	for _, t := range page.Content().Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		placed := false
		for _, r := range rows {
			if t.Y >= r.yMin-pdfRowTolerance && t.Y <= r.yMax+pdfRowTolerance {
				r.runs = append(r.runs, t)
				if t.Y < r.yMin {
					r.yMin = t.Y
				}
				if t.Y > r.yMax {
					r.yMax = t.Y
				}
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, &row{yMin: t.Y, yMax: t.Y, runs: []pdflib.Text{t}})
		}
	}

	// PDF Y grows upward, so the top of the page sorts first.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].yMax > rows[j].yMax })

	for _, r := range rows {
		sort.SliceStable(r.runs, func(i, j int) bool { return r.runs[i].X < r.runs[j].X })
		var buf strings.Builder
		var size float64
		lastEnd := math.Inf(-1)
		for _, t := range r.runs {
			if buf.Len() > 0 {
				gap := t.X - lastEnd
				if gap > pdfSpaceGap || gap > pdfSpaceFactor*t.FontSize {
					buf.WriteByte(' ')
				}
			}
			buf.WriteString(t.S)
			if end := t.X + t.W; end > lastEnd {
				lastEnd = end
			}
			if t.FontSize > size {
				size = t.FontSize
			}
		}
		if text := strings.TrimSpace(buf.String()); text != "" {
			lines = append(lines, pdfLine{text: text, size: size})
		}
	}
	return lines
}

// blocksFromLines classifies lines by font size and folds consecutive body
// lines into paragraphs. Paragraphs break at headings and page boundaries.
func blocksFromLines(lines []pdfLine) []docblock.Block {
	if len(lines) == 0 {
		return nil
	}
	levelBySize := headingSizes(lines)

	var blocks []docblock.Block
	var para []string
	paraPage := 0
	flush := func() {
		if len(para) > 0 {
			blocks = append(blocks, docblock.Block{Kind: docblock.Paragraph, Text: strings.Join(para, " ")})
			para = nil
		}
	}
	for _, ln := range lines {
		if level, ok := levelBySize[roundSize(ln.size)]; ok {
			flush()
			blocks = append(blocks, docblock.Block{Kind: docblock.Heading, Level: level, Text: ln.text})
			continue
		}
		if len(para) > 0 && ln.page != paraPage {
			flush()
		}
		para = append(para, ln.text)
		paraPage = ln.page
	}
	flush()
	return blocks
}

// headingSizes picks the most frequent rounded line size as body text and
// maps up to three distinct larger sizes to heading levels. Single-size
// documents get no headings at all.
func headingSizes(lines []pdfLine) map[float64]int {
	counts := make(map[float64]int)
	for _, ln := range lines {
		counts[roundSize(ln.size)]++
	}

	body, bodyCount := 0.0, 0
	for size, n := range counts {
		if n > bodyCount || (n == bodyCount && size < body) {
			body, bodyCount = size, n
		}
	}

	var larger []float64
	for size := range counts {
		if size > body {
			larger = append(larger, size)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(larger)))
	if len(larger) > 3 {
		larger = larger[:3]
	}

	levels := make(map[float64]int, len(larger))
	for i, size := range larger {
		levels[size] = i + 1
	}
	return levels
}

func roundSize(s float64) float64 {
	return math.Round(s*2) / 2
}
