// Package htmldoc implements the dom contract over an in-memory
// golang.org/x/net/html document. It backs the heuristic tests and the
// HTTP-fetch diagnostic path, where no live browser is attached.
package htmldoc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/jobfill/dom"
)

// Document is a parsed, mutable HTML document.
type Document struct {
	url  string
	root *html.Node

	// dispatched records synthetic events in dispatch order, for tests.
	dispatched []Event
}

// Event is one synthetic event dispatched through a handle.
type Event struct {
	// Target is the element's name attribute (or id when name is absent).
	Target string
	Type   string
}

// Parse reads an HTML document. pageURL is reported by URL and feeds the
// URL detection signal.
func Parse(r io.Reader, pageURL string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parse: %w", err)
	}
	return &Document{url: pageURL, root: root}, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s, pageURL string) (*Document, error) {
	return Parse(strings.NewReader(s), pageURL)
}

// URL returns the page URL given at parse time.
func (d *Document) URL() string { return d.url }

// DispatchedEvents returns every synthetic event dispatched so far, in order.
func (d *Document) DispatchedEvents() []Event { return d.dispatched }

// Forms snapshots every <form> in document order.
func (d *Document) Forms(_ context.Context) ([]dom.FormSnapshot, error) {
	var snaps []dom.FormSnapshot
	walk(d.root, func(n *html.Node) {
		if isElement(n, atom.Form) {
			snaps = append(snaps, d.snapshotForm(n))
		}
	})
	return snaps, nil
}

// Query resolves a comma-joined list of simple selectors to handles in
// document order. Supported shapes: "tag", "#id", "[attr=value]" and
// "tag[attr=value]" (value optionally quoted) — the shapes the mapper and
// executor generate.
func (d *Document) Query(_ context.Context, selector string) ([]dom.Handle, error) {
	alts, err := parseSelectorList(selector)
	if err != nil {
		return nil, err
	}

	var handles []dom.Handle
	walk(d.root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		for _, alt := range alts {
			if alt.matches(n) {
				handles = append(handles, &handle{doc: d, node: n})
				return
			}
		}
	})
	return handles, nil
}

func (d *Document) snapshotForm(form *html.Node) dom.FormSnapshot {
	identity := attr(form, "id")
	if identity == "" {
		identity = attr(form, "class")
	}
	if identity == "" {
		identity = "unnamed-form"
	}

	snap := dom.FormSnapshot{
		Identity: identity,
		Action:   attr(form, "action"),
		Method:   attr(form, "method"),
		Text:     d.formText(form),
		HTML:     render(form),
	}

	walk(form, func(n *html.Node) {
		switch {
		case isElement(n, atom.Input):
			if strings.EqualFold(attr(n, "type"), "file") {
				snap.HasFileInput = true
			}
			snap.Fields = append(snap.Fields, d.snapshotField(n))
		case isElement(n, atom.Select), isElement(n, atom.Textarea):
			snap.Fields = append(snap.Fields, d.snapshotField(n))
		}
	})
	return snap
}

func (d *Document) snapshotField(n *html.Node) dom.FieldSnapshot {
	name := attr(n, "name")
	if name == "" {
		name = attr(n, "id")
	}

	typ := attr(n, "type")
	if typ == "" {
		typ = n.Data // lowercase tag name
	}

	return dom.FieldSnapshot{
		Name:        name,
		ID:          attr(n, "id"),
		Type:        typ,
		Placeholder: attr(n, "placeholder"),
		Label:       d.fieldLabel(n),
		Value:       elementValue(n),
		Required:    hasAttr(n, "required"),
	}
}

// fieldLabel resolves the label text for an input: an explicit label[for]
// first, then an ancestor <label>, then the first non-empty sibling text
// node. Empty string when nothing applies.
func (d *Document) fieldLabel(n *html.Node) string {
	if id := attr(n, "id"); id != "" {
		var found string
		walk(d.root, func(l *html.Node) {
			if found == "" && isElement(l, atom.Label) && attr(l, "for") == id {
				found = collectText(l)
			}
		})
		if found != "" {
			return found
		}
	}

	for p := n.Parent; p != nil; p = p.Parent {
		if isElement(p, atom.Label) {
			return collectText(p)
		}
	}

	if p := n.Parent; p != nil {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				if text := strings.TrimSpace(c.Data); text != "" {
					return text
				}
			}
		}
	}
	return ""
}

// formText concatenates the visible text of the form's labels, legends,
// headings, paragraphs and spans plus its action, class and id attributes.
func (d *Document) formText(form *html.Node) string {
	var parts []string
	walk(form, func(n *html.Node) {
		switch n.DataAtom {
		case atom.Label, atom.Legend, atom.H1, atom.H2, atom.H3,
			atom.H4, atom.H5, atom.H6, atom.P, atom.Span:
			if n.Type == html.ElementNode {
				parts = append(parts, collectText(n))
			}
		}
	})
	parts = append(parts, attr(form, "action"), attr(form, "class"), attr(form, "id"))
	return strings.Join(parts, " ")
}

// --- node helpers ---

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func isElement(n *html.Node, a atom.Atom) bool {
	return n.Type == html.ElementNode && n.DataAtom == a
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func collectText(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return strings.TrimSpace(b.String())
}

func render(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// elementValue reads the current value of an input, textarea or select.
func elementValue(n *html.Node) string {
	switch n.DataAtom {
	case atom.Textarea:
		return collectText(n)
	case atom.Select:
		var first, selected string
		var haveFirst bool
		walk(n, func(o *html.Node) {
			if !isElement(o, atom.Option) {
				return
			}
			val := attr(o, "value")
			if val == "" {
				val = collectText(o)
			}
			if !haveFirst {
				first, haveFirst = val, true
			}
			if hasAttr(o, "selected") && selected == "" {
				selected = val
			}
		})
		if selected != "" {
			return selected
		}
		return first
	default:
		return attr(n, "value")
	}
}
