package page

import (
	"strings"

	"github.com/thruflo/rota/web"
)

// Document is one fully specified page. Body and Script are embedded
// verbatim, so any untrusted text inside them must already be escaped.
type Document struct {
	Title  string
	Body   string
	Script string
}

// Assembler builds complete HTML documents around a fixed stylesheet.
type Assembler struct {
	stylesheet string
}

// NewAssembler returns an Assembler that embeds the given stylesheet.
func NewAssembler(stylesheet string) *Assembler {
	return &Assembler{stylesheet: stylesheet}
}

var defaultAssembler = NewAssembler(web.Stylesheet)

// Assemble builds a document with the embedded default stylesheet.
func Assemble(title, body, script string) string {
	return defaultAssembler.Assemble(Document{Title: title, Body: body, Script: script})
}

// Assemble renders doc as a standalone HTML document. The script element
// is always emitted, even when doc.Script is empty.
func (a *Assembler) Assemble(doc Document) string {
	var sb strings.Builder
	sb.Grow(len(a.stylesheet) + len(doc.Body) + len(doc.Script) + 512)

	sb.WriteString("<!doctype html>\n")
	sb.WriteString("<html lang=\"th\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("  <meta charset=\"utf-8\"/>\n")
	sb.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>\n")
	sb.WriteString("  <title>")
	sb.WriteString(Escape(doc.Title))
	sb.WriteString("</title>\n")
	sb.WriteString("  <style>")
	sb.WriteString(a.stylesheet)
	sb.WriteString("</style>\n")
	sb.WriteString("</head>\n")
	sb.WriteString("<body>\n")
	sb.WriteString(doc.Body)
	sb.WriteString("\n<script>\n")
	sb.WriteString(doc.Script)
	sb.WriteString("\n</script>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>")

	return sb.String()
}
