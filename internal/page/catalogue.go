package page

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"text/template"

	"github.com/thruflo/rota/web"
)

// ID identifies a page through the "page" query parameter.
type ID string

// Known pages.
const (
	Login    ID = "login"
	Register ID = "register"
	Work     ID = "work"
)

// QueryParam is the query parameter that selects a page.
const QueryParam = "page"

// ErrUnknownPage is returned for page identifiers outside the catalogue.
var ErrUnknownPage = errors.New("unknown page")

// ParseID maps a query value to a page. The empty value selects Login.
func ParseID(s string) (ID, error) {
	switch id := ID(s); id {
	case "", Login:
		return Login, nil
	case Register, Work:
		return id, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
	}
}

// Location returns the address that loads page id from the same base path.
// Login is the default page and maps to the bare path.
func Location(path string, id ID) string {
	if id == "" || id == Login {
		return path
	}
	return path + "?" + url.Values{QueryParam: {string(id)}}.Encode()
}

// Branding holds the deployment-specific text shown on every page.
type Branding struct {
	Branch string
	Credit string
}

type pageSource struct {
	title  string
	body   string
	script string
}

var sources = map[ID]pageSource{
	Login:    {title: "Login", body: "login.html", script: "login.js"},
	Register: {title: "Register", body: "register.html", script: "register.js"},
	Work:     {title: "Work", body: "work.html", script: "work.js"},
}

const bridgeScript = "bridge.js"

// Catalogue holds the assembled documents of every known page.
type Catalogue struct {
	docs map[ID]string
}

// NewCatalogue loads the page sources from fsys and assembles each page
// once. Body fragments are text/template sources; their only dynamic
// fields come from brand and pass through Escape.
func NewCatalogue(fsys fs.FS, brand Branding) (*Catalogue, error) {
	css, err := web.ReadFile(fsys, "style.css")
	if err != nil {
		return nil, err
	}
	bridge, err := web.ReadFile(fsys, bridgeScript)
	if err != nil {
		return nil, err
	}

	assembler := NewAssembler(css)
	docs := make(map[ID]string, len(sources))
	for id, src := range sources {
		doc, err := loadDocument(fsys, src, bridge, brand)
		if err != nil {
			return nil, fmt.Errorf("failed to load page %s: %w", id, err)
		}
		docs[id] = assembler.Assemble(doc)
	}

	return &Catalogue{docs: docs}, nil
}

func loadDocument(fsys fs.FS, src pageSource, bridge string, brand Branding) (Document, error) {
	bodySrc, err := web.ReadFile(fsys, src.body)
	if err != nil {
		return Document{}, err
	}
	script, err := web.ReadFile(fsys, src.script)
	if err != nil {
		return Document{}, err
	}

	tmpl, err := template.New(src.body).
		Option("missingkey=error").
		Funcs(template.FuncMap{"esc": Escape}).
		Parse(bodySrc)
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse %s: %w", src.body, err)
	}

	var body strings.Builder
	if err := tmpl.Execute(&body, brand); err != nil {
		return Document{}, fmt.Errorf("failed to render %s: %w", src.body, err)
	}

	return Document{
		Title:  src.title,
		Body:   body.String(),
		Script: bridge + "\n" + script,
	}, nil
}

// Render returns the document for id.
func (c *Catalogue) Render(id ID) (string, error) {
	doc, ok := c.docs[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPage, string(id))
	}
	return doc, nil
}
