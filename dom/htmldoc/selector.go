package htmldoc

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// simpleSelector is one alternative of a comma-joined selector list. Only
// the shapes jobfill generates are supported: a tag name, "#id", and an
// attribute-equality filter, optionally combined as tag[attr=value].
type simpleSelector struct {
	tag     string
	id      string
	attrKey string
	attrVal string
	hasAttr bool
}

func (s simpleSelector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && n.Data != s.tag {
		return false
	}
	if s.id != "" && attr(n, "id") != s.id {
		return false
	}
	if s.hasAttr && attr(n, s.attrKey) != s.attrVal {
		return false
	}
	return true
}

func parseSelectorList(selector string) ([]simpleSelector, error) {
	var alts []simpleSelector
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sel, err := parseSimple(part)
		if err != nil {
			return nil, err
		}
		alts = append(alts, sel)
	}
	if len(alts) == 0 {
		return nil, fmt.Errorf("htmldoc: empty selector %q", selector)
	}
	return alts, nil
}

func parseSimple(s string) (simpleSelector, error) {
	var sel simpleSelector

	if strings.HasPrefix(s, "#") {
		sel.id = s[1:]
		if sel.id == "" {
			return sel, fmt.Errorf("htmldoc: bare # in selector")
		}
		return sel, nil
	}

	// Optional tag prefix before an attribute filter.
	if i := strings.IndexByte(s, '['); i >= 0 {
		sel.tag = strings.ToLower(strings.TrimSpace(s[:i]))
		rest := s[i:]
		if !strings.HasSuffix(rest, "]") {
			return sel, fmt.Errorf("htmldoc: unterminated attribute selector %q", s)
		}
		body := rest[1 : len(rest)-1]
		key, val, ok := strings.Cut(body, "=")
		if !ok {
			return sel, fmt.Errorf("htmldoc: unsupported attribute selector %q", s)
		}
		sel.attrKey = strings.TrimSpace(key)
		sel.attrVal = strings.Trim(strings.TrimSpace(val), `"'`)
		sel.hasAttr = true
		return sel, nil
	}

	sel.tag = strings.ToLower(s)
	return sel, nil
}
