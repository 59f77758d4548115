package renderer

import (
	"testing"

	"github.com/nikogura/resume-studio/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		want LineKind
	}{
		{name: "empty", line: "", want: Blank},
		{name: "whitespace only", line: " \t  ", want: Blank},
		{name: "heading", line: "Experience:", want: Heading},
		{name: "heading with padding", line: "  Skills:  ", want: Heading},
		{name: "bullet", line: "- Built things", want: Bullet},
		{name: "bullet without space", line: "-Built things", want: Bullet},
		{name: "bullet ending in colon is a heading", line: "- Tools:", want: Heading},
		{name: "body", line: "Summary text here", want: Body},
		{name: "colon in the middle is body", line: "Email: me@example.com", want: Body},
		{name: "carriage return is trimmed", line: "Education:\r", want: Heading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line))
		})
	}
}

func TestLayoutClassifiesInOrder(t *testing.T) {
	blocks := Layout("Skills:\n- Python\n- Go\n\nSummary text here", style.Modern)

	require.Len(t, blocks, 5)
	assert.Equal(t, []LineKind{Heading, Bullet, Bullet, Blank, Body}, Kinds(blocks))
	assert.Equal(t, "Skills:", blocks[0].Text)
	assert.Equal(t, "- Python", blocks[1].Text)
	assert.Equal(t, "- Go", blocks[2].Text)
	assert.Equal(t, "", blocks[3].Text)
	assert.Equal(t, "Summary text here", blocks[4].Text)
}

func TestLayoutAppliesTemplateStyles(t *testing.T) {
	set := style.Lookup(style.Creative)
	blocks := Layout("Skills:\n- Go\nPlain", style.Creative)

	require.Len(t, blocks, 3)
	assert.Equal(t, set.Heading, blocks[0].Style)
	assert.True(t, blocks[0].Bold)
	assert.Equal(t, set.Bullet, blocks[1].Style)
	assert.False(t, blocks[1].Bold)
	assert.Equal(t, set.Body, blocks[2].Style)
}

func TestLayoutWhitespaceLinesAreBlankForEveryTemplate(t *testing.T) {
	for _, tmpl := range style.Templates() {
		blocks := Layout("Intro\n   \n\t\nOutro", tmpl)
		assert.Equal(t, []LineKind{Body, Blank, Blank, Body}, Kinds(blocks), "template %s", tmpl)
	}
}

func TestLayoutEmptySource(t *testing.T) {
	blocks := Layout("", style.Professional)
	assert.Equal(t, []LineKind{Blank}, Kinds(blocks))
}

func TestLayoutPassesMarkupThrough(t *testing.T) {
	blocks := Layout("R&D <lead> & co:", style.Professional)

	require.Len(t, blocks, 1)
	assert.Equal(t, Heading, blocks[0].Kind)
	assert.Equal(t, "R&D <lead> & co:", blocks[0].Text)
}

func TestLayoutIsIdempotent(t *testing.T) {
	source := "Experience:\n- Shipped\n\nThanks"
	assert.Equal(t, Layout(source, style.Modern), Layout(source, style.Modern))
}

func TestLayoutUnknownTemplateMatchesProfessional(t *testing.T) {
	source := "Experience:\n- Shipped\n\nThanks"
	assert.Equal(t, Layout(source, style.Professional), Layout(source, style.Template("Baroque")))
}

func TestLineKindString(t *testing.T) {
	assert.Equal(t, "blank", Blank.String())
	assert.Equal(t, "heading", Heading.String())
	assert.Equal(t, "bullet", Bullet.String())
	assert.Equal(t, "body", Body.String())
	assert.Equal(t, "unknown", LineKind(42).String())
}
