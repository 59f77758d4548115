package style

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Template is a named visual preset for rendered documents.
type Template string

const (
	// Professional is the default template and the fallback for unknown names.
	Professional Template = "Professional"
	// Modern uses teal accents on Helvetica.
	Modern Template = "Modern"
	// Creative uses Courier with blue bullets.
	Creative Template = "Creative"
)

// Templates lists every known template in display order.
func Templates() (templates []Template) {
	templates = []Template{Professional, Modern, Creative}
	return templates
}

// ParseTemplate resolves a user supplied name to a Template. Names must match exactly;
// anything else, "modern" included, resolves to Professional.
func ParseTemplate(name string) (t Template) {
	t = Template(name)
	if !t.Known() {
		t = Professional
	}

	return t
}

// Known reports whether t is one of the enumerated templates.
func (t Template) Known() (known bool) {
	_, known = styleSets[t]
	return known
}

// Slug is the lower-case name used in filenames and prompts.
func (t Template) Slug() (slug string) {
	slug = cases.Lower(language.English).String(string(t))
	return slug
}

// Color is an RGB text color.
type Color struct {
	R int
	G int
	B int
}

// Black is the default text color.
//
//nolint:gochecknoglobals // immutable palette value
var Black = Color{0, 0, 0}

// Hex builds a Color from a "#rrggbb" string. Malformed input yields Black.
func Hex(hex string) (c Color) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		c = Black
		return c
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		c = Black
		return c
	}

	c = Color{R: int(rgb >> 16 & 0xff), G: int(rgb >> 8 & 0xff), B: int(rgb & 0xff)}
	return c
}

// TextStyle is the typography applied to one kind of block.
type TextStyle struct {
	Name         string
	FontFamily   string
	FontStyle    string // gofpdf style string: "", "B", "I", "BI"
	FontSize     float64
	Color        Color
	SpaceBefore  float64
	SpaceAfter   float64
	LeftIndent   float64
	BulletIndent float64
}

// Leading is the line height for the style.
func (s TextStyle) Leading() (leading float64) {
	leading = s.FontSize * 1.2
	return leading
}

// Set holds the three styles a template defines.
type Set struct {
	Heading TextStyle
	Body    TextStyle
	Bullet  TextStyle
}

// complete reports whether every style in the set has a font and a size.
func (s Set) complete() (ok bool) {
	for _, ts := range []TextStyle{s.Heading, s.Body, s.Bullet} {
		if ts.FontFamily == "" || ts.FontSize <= 0 {
			return false
		}
	}
	return true
}

//nolint:gochecknoglobals // lookup table, read only after init
var styleSets = map[Template]Set{
	Professional: {
		Heading: TextStyle{Name: "Heading", FontFamily: "Helvetica", FontStyle: "B", FontSize: 14, Color: Black, SpaceBefore: 12, SpaceAfter: 6},
		Body:    TextStyle{Name: "Normal", FontFamily: "Helvetica", FontSize: 10, Color: Black},
		Bullet:  TextStyle{Name: "Bullet", FontFamily: "Helvetica", FontSize: 10, Color: Black, SpaceBefore: 3},
	},
	Modern: {
		Heading: TextStyle{Name: "Heading", FontFamily: "Helvetica", FontStyle: "B", FontSize: 14, Color: Hex("#005f73"), SpaceBefore: 12, SpaceAfter: 8},
		Body:    TextStyle{Name: "Normal", FontFamily: "Helvetica", FontSize: 10, Color: Black},
		Bullet:  TextStyle{Name: "Bullet", FontFamily: "Helvetica", FontSize: 10, Color: Hex("#0A9396"), LeftIndent: 12, BulletIndent: 6},
	},
	Creative: {
		Heading: TextStyle{Name: "Heading", FontFamily: "Courier", FontStyle: "B", FontSize: 15, Color: Hex("#1C1C1C"), SpaceBefore: 12, SpaceAfter: 10},
		Body:    TextStyle{Name: "Normal", FontFamily: "Courier", FontSize: 10, Color: Hex("#333333")},
		Bullet:  TextStyle{Name: "Bullet", FontFamily: "Courier", FontSize: 10, Color: Hex("#4A90E2"), LeftIndent: 12, BulletIndent: 6},
	},
}

//nolint:gochecknoinits // the table is a closed variant and must be total
func init() {
	for _, t := range Templates() {
		set, ok := styleSets[t]
		if !ok || !set.complete() {
			panic("style: incomplete style set for template " + string(t))
		}
	}
}

// Lookup returns the style set for t, falling back to Professional.
func Lookup(t Template) (set Set) {
	set, ok := styleSets[t]
	if !ok {
		set = styleSets[Professional]
	}
	return set
}
