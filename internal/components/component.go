// Package components renders the storefront's markup as templ components.
//
// Sections that load images are Leafs: they declare their asset refs, and
// the page session reports them to the load gate once every ref resolves.
package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/conneroisu/sparkle/internal/asset"
)

// Leaf is a section that independently loads its own images.
type Leaf interface {
	ID() string
	Assets() []asset.Ref
}

// Results maps each ref to its load outcome.
type Results map[asset.Ref]asset.Result

// Failed reports whether ref was loaded and failed. Refs with no result yet
// are not failed.
func (r Results) Failed(ref string) bool {
	res, ok := r[asset.Ref(ref)]
	return ok && !res.OK()
}

// State is what a render knows about the page's assets.
type State struct {
	Loading bool
	Results Results
}

// Section is a Leaf with a view.
type Section struct {
	id     string
	assets []asset.Ref
	view   func(State) templ.Component
}

// NewSection builds a leaf from its id, refs and view. Duplicate refs are
// dropped, keeping first occurrence order.
func NewSection(id string, refs []string, view func(State) templ.Component) *Section {
	seen := make(map[string]bool, len(refs))
	assets := make([]asset.Ref, 0, len(refs))
	for _, r := range refs {
		if seen[r] {
			continue
		}
		seen[r] = true
		assets = append(assets, asset.Ref(r))
	}
	return &Section{id: id, assets: assets, view: view}
}

// ID names the section in the load gate.
func (s *Section) ID() string { return s.id }

// Assets lists the distinct refs the section displays.
func (s *Section) Assets() []asset.Ref { return s.assets }

// Render returns the section's markup for st.
func (s *Section) Render(st State) templ.Component { return s.view(st) }

// htmlWriter writes markup and keeps the first error, so component bodies
// can be written straight through and checked once.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// open writes a start tag. attrs alternate name, value and empty values are
// skipped. Boolean attributes are written bare for any non-empty value.
func (h *htmlWriter) open(tag string, attrs ...string) {
	h.raw("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		name, value := attrs[i], attrs[i+1]
		if value == "" {
			continue
		}
		if boolAttrs[name] {
			h.raw(" " + name)
			continue
		}
		h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
	}
	h.raw(">")
}

func (h *htmlWriter) close(tag string) {
	h.raw("</" + tag + ">")
}

// elem writes a complete element with escaped text content.
func (h *htmlWriter) elem(tag, text string, attrs ...string) {
	h.open(tag, attrs...)
	h.text(text)
	h.close(tag)
}

func (h *htmlWriter) render(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

var boolAttrs = map[string]bool{
	"hidden":   true,
	"disabled": true,
	"required": true,
}

// component adapts a writer-based body to templ.Component.
func component(body func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		body(h)
		return h.err
	})
}

func itoa(n int) string { return strconv.Itoa(n) }

// flag turns a condition into a boolean attribute value for open.
func flag(b bool) string {
	if b {
		return "true"
	}
	return ""
}
