package renderer

import (
	"strings"

	"github.com/nikogura/resume-studio/pkg/style"
)

// LineKind is the layout class of a single source line.
type LineKind int

const (
	// Blank lines become fixed-height spacers.
	Blank LineKind = iota
	// Heading lines end with a colon.
	Heading
	// Bullet lines start with a hyphen.
	Bullet
	// Body is everything else.
	Body
)

// SpacerHeight is the vertical gap emitted for a blank line, in points.
const SpacerHeight = 10.0

func (k LineKind) String() (name string) {
	switch k {
	case Blank:
		name = "blank"
	case Heading:
		name = "heading"
	case Bullet:
		name = "bullet"
	case Body:
		name = "body"
	default:
		name = "unknown"
	}
	return name
}

// Block is one laid out unit of the rendered document.
type Block struct {
	Kind  LineKind
	Text  string
	Style style.TextStyle
	Bold  bool
}

// lineRule classifies a trimmed line. Rules are evaluated in slice order and the first
// match wins, so new kinds are added by inserting a rule at the right priority.
type lineRule struct {
	kind    LineKind
	matches func(trimmed string) bool
}

//nolint:gochecknoglobals // ordered rule table
var lineRules = []lineRule{
	{kind: Blank, matches: func(s string) bool { return s == "" }},
	{kind: Heading, matches: func(s string) bool { return strings.HasSuffix(s, ":") }},
	{kind: Bullet, matches: func(s string) bool { return strings.HasPrefix(s, "-") }},
}

// Classify returns the LineKind of a raw line. Whitespace is trimmed before any rule
// runs, so whitespace-only lines are Blank.
func Classify(line string) (kind LineKind) {
	trimmed := strings.TrimSpace(line)
	for _, rule := range lineRules {
		if rule.matches(trimmed) {
			kind = rule.kind
			return kind
		}
	}
	kind = Body
	return kind
}

// Layout splits source into lines and turns each one into a Block styled for t.
// Lines are never dropped, merged or reordered.
func Layout(source string, t style.Template) (blocks []Block) {
	set := style.Lookup(t)
	lines := strings.Split(source, "\n")
	blocks = make([]Block, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		kind := Classify(trimmed)

		block := Block{Kind: kind, Text: trimmed}
		switch kind {
		case Blank:
			block.Text = ""
		case Heading:
			block.Style = set.Heading
			block.Bold = true
		case Bullet:
			block.Style = set.Bullet
		default:
			block.Style = set.Body
		}

		blocks = append(blocks, block)
	}

	return blocks
}

// Kinds returns the kind of every block, in order.
func Kinds(blocks []Block) (kinds []LineKind) {
	kinds = make([]LineKind, len(blocks))
	for i, b := range blocks {
		kinds[i] = b.Kind
	}
	return kinds
}
