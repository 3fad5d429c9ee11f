package docblock

// Kind discriminates the block variants emitted by the parsers.
type Kind string

const (
	Paragraph Kind = "paragraph"
	Heading   Kind = "heading"
	Table     Kind = "table"
)

// Block is one body element of a parsed document. Parsers emit blocks in
// source order; everything downstream consumes them read-only.
type Block struct {
	Kind  Kind
	Level int        // heading level 1-6, 0 for other kinds
	Text  string     // heading or paragraph text
	Rows  [][]string // table cell grid, row-major
}

// HeadingInfo is one entry of a document's heading outline.
type HeadingInfo struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// HeadingRange is the contiguous block span owned by one qualifying heading.
// Start points at the heading block itself; End is exclusive and points at the
// next heading of level <= Level, or the end of the sequence.
type HeadingRange struct {
	Start int
	End   int
	Level int
	Title string // heading text as written in the source
	Base  string // normalized base title, used for grouping and filters
}

// Outline returns the heading blocks of a sequence in order. The result is
// never nil so it serializes as an empty list.
func Outline(blocks []Block) []HeadingInfo {
	out := make([]HeadingInfo, 0)
	for _, b := range blocks {
		if b.Kind == Heading {
			out = append(out, HeadingInfo{Level: b.Level, Text: b.Text})
		}
	}
	return out
}
