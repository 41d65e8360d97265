package page

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thruflo/rota/web"
)

func TestAssemble(t *testing.T) {
	t.Parallel()

	body := `<div class="card" id="body-marker">x & y</div>`
	script := `console.log("<script-marker>" && 'ok');`
	doc := Assemble("Shift Board", body, script)

	assert.True(t, strings.HasPrefix(doc, "<!doctype html>"))
	assert.Contains(t, doc, `<html lang="th">`)
	assert.Contains(t, doc, `<meta charset="utf-8"/>`)
	assert.Contains(t, doc, `<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
	assert.Contains(t, doc, "<style>"+web.Stylesheet+"</style>")
	assert.True(t, strings.HasSuffix(doc, "</html>"))

	assert.Equal(t, 1, strings.Count(doc, "<title>Shift Board</title>"))
	assert.Equal(t, 1, strings.Count(doc, body), "body must be embedded verbatim")
	assert.Equal(t, 1, strings.Count(doc, script), "script must be embedded verbatim")

	// The script region trails the body.
	assert.Less(t, strings.Index(doc, body), strings.Index(doc, "<script>"))
	assert.Less(t, strings.Index(doc, "<script>"), strings.Index(doc, script))
}

func TestAssembleEscapesTitle(t *testing.T) {
	t.Parallel()

	doc := Assemble(`<script>&"'`, "", "")

	assert.Contains(t, doc, "<title>&lt;script&gt;&amp;&quot;&#39;</title>")
	assert.Equal(t, 1, strings.Count(doc, "&lt;script&gt;&amp;&quot;&#39;"))
}

func TestAssembleEmptyScript(t *testing.T) {
	t.Parallel()

	doc := Assemble("Empty", "<p>hi</p>", "")

	assert.Contains(t, doc, "<script>\n\n</script>")
	assert.Equal(t, 1, strings.Count(doc, "<script>"))
}

func TestAssembleIsDeterministic(t *testing.T) {
	t.Parallel()

	a := Assemble("Login", "<div></div>", "boot();")
	b := Assemble("Login", "<div></div>", "boot();")
	assert.Equal(t, a, b)
}

func TestAssemblerCustomStylesheet(t *testing.T) {
	t.Parallel()

	a := NewAssembler("body{color:red}")
	doc := a.Assemble(Document{Title: "T", Body: "B", Script: "S"})

	assert.Contains(t, doc, "<style>body{color:red}</style>")
	assert.NotContains(t, doc, "--primary")
}
