package htmldoc

import (
	"context"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// handle addresses one live element of the parsed document.
type handle struct {
	doc  *Document
	node *html.Node
}

func (h *handle) Kind(_ context.Context) (string, error) {
	typ := attr(h.node, "type")
	if typ == "" {
		typ = h.node.Data
	}
	return typ, nil
}

func (h *handle) SetValue(_ context.Context, value string, events ...string) error {
	switch h.node.DataAtom {
	case atom.Textarea:
		for h.node.FirstChild != nil {
			h.node.RemoveChild(h.node.FirstChild)
		}
		h.node.AppendChild(&html.Node{Type: html.TextNode, Data: value})
	case atom.Select:
		walk(h.node, func(o *html.Node) {
			if !isElement(o, atom.Option) {
				return
			}
			val := attr(o, "value")
			if val == "" {
				val = collectText(o)
			}
			if val == value {
				setAttr(o, "selected", "selected")
			} else {
				removeAttr(o, "selected")
			}
		})
	default:
		setAttr(h.node, "value", value)
	}

	h.dispatch(events)
	return nil
}

func (h *handle) SetChecked(_ context.Context, checked bool) error {
	if checked {
		setAttr(h.node, "checked", "checked")
	} else {
		removeAttr(h.node, "checked")
	}
	return nil
}

func (h *handle) dispatch(events []string) {
	target := attr(h.node, "name")
	if target == "" {
		target = attr(h.node, "id")
	}
	for _, ev := range events {
		h.doc.dispatched = append(h.doc.dispatched, Event{Target: target, Type: ev})
	}
}
