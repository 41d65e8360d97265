package page

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// entity matches the entities Escape emits.
var entity = regexp.MustCompile(`&(?:amp;|lt;|gt;|quot;|#39;)`)

func TestEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text unchanged", "Grand Diamond", "Grand Diamond"},
		{"ampersand", "a&b", "a&amp;b"},
		{"angle brackets", "<b>", "&lt;b&gt;"},
		{"double quote", `say "hi"`, "say &quot;hi&quot;"},
		{"single quote", "it's", "it&#39;s"},
		{"thai text unchanged", "ตารางงาน", "ตารางงาน"},
		{"all five", `<script>&"'`, "&lt;script&gt;&amp;&quot;&#39;"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Escape(tt.in))
		})
	}
}

func TestEscapeLeavesNoSpecialCharacters(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`<a href="x">'&'</a>`,
		"&&&&",
		"&amp; already escaped",
		"\"'<>&\x00\n\t",
		strings.Repeat("<&>", 100),
	}

	for _, in := range inputs {
		out := Escape(in)
		assert.NotContains(t, out, "<")
		assert.NotContains(t, out, ">")
		assert.NotContains(t, out, `"`)
		assert.NotContains(t, out, "'")

		// Every & must begin an entity.
		stripped := entity.ReplaceAllString(out, "")
		assert.NotContains(t, stripped, "&", "input %q", in)
	}
}

func TestEscapeIsNotIdempotent(t *testing.T) {
	t.Parallel()

	once := Escape("&")
	twice := Escape(once)

	assert.Equal(t, "&amp;", once)
	assert.Equal(t, "&amp;amp;", twice)
	assert.NotEqual(t, once, twice)
}

func TestEscapeAny(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", EscapeAny(nil))
	assert.Equal(t, EscapeAny(nil), Escape(""))
	assert.Equal(t, "a&amp;b", EscapeAny("a&b"))
	assert.Equal(t, "42", EscapeAny(42))
	assert.Equal(t, "true", EscapeAny(true))
}
