// Package render turns resume data into a complete HTML page using one of
// several interchangeable visual templates.
package render

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"sort"
	"strings"

	"github.com/yoockh/cvcraft/internal/resume"
	"github.com/yoockh/cvcraft/internal/utils"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// DefaultTemplate is used when a caller does not name one.
const DefaultTemplate = "gengar"

var builtin = []string{"gengar", "modern", "azurill"}

var ErrUnknownTemplate = errors.New("unknown template")

// Document is a rendered resume: a self-contained HTML page.
type Document struct {
	Template string
	Title    string
	HTML     []byte
}

type Template interface {
	Name() string
	Render(d resume.Data) (*Document, error)
}

type htmlTemplate struct {
	name string
	tmpl *template.Template
}

var funcs = template.FuncMap{
	"lower": strings.ToLower,
}

func parse(name string) (*htmlTemplate, error) {
	t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
		"templates/partials.html.tmpl",
		"templates/"+name+".html.tmpl",
	)
	if err != nil {
		return nil, err
	}
	return &htmlTemplate{name: name, tmpl: t}, nil
}

func (t *htmlTemplate) Name() string { return t.name }

// Render takes d by value and never writes to it.
func (t *htmlTemplate) Render(d resume.Data) (*Document, error) {
	const op = "render.Render"

	v := newView(d)
	var buf bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&buf, "page", v); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to render template "+t.name, err)
	}
	return &Document{Template: t.name, Title: v.Title, HTML: buf.Bytes()}, nil
}

// Registry looks templates up by name.
type Registry struct {
	byName map[string]Template
	def    string
}

// NewRegistry registers ts; the first one becomes the default.
func NewRegistry(ts ...Template) *Registry {
	r := &Registry{byName: make(map[string]Template, len(ts))}
	for _, t := range ts {
		if r.def == "" {
			r.def = t.Name()
		}
		r.byName[t.Name()] = t
	}
	return r
}

// Builtin parses the embedded templates.
func Builtin() (*Registry, error) {
	ts := make([]Template, 0, len(builtin))
	for _, name := range builtin {
		t, err := parse(name)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, "render.Builtin", "failed to parse template "+name, err)
		}
		ts = append(ts, t)
	}
	return NewRegistry(ts...), nil
}

// Get returns the named template, or the default one for "".
func (r *Registry) Get(name string) (Template, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = r.def
	}
	t, ok := r.byName[name]
	if !ok {
		return nil, utils.E(utils.CodeValidation, "Registry.Get", "unknown template: "+name, ErrUnknownTemplate)
	}
	return t, nil
}

func (r *Registry) Default() string { return r.def }

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
