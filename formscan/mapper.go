// Package formscan holds the heuristic form-understanding engine: deciding
// whether a form is a job application and mapping its fields to canonical
// profile attributes, without site-specific configuration. It operates on
// dom snapshots only — never on live node references — so results stay
// valid after further page mutation until the next scan.
package formscan

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/jobfill/dom"
	"github.com/hazyhaar/jobfill/vocab"
)

// Mapping associates canonical fields with the CSS selector (possibly
// comma-joined alternatives) that addresses the matched element. Fields
// with no confident match are simply absent.
type Mapping map[vocab.Field]string

// MapFields maps a form's fields to canonical profile attributes. For each
// canonical field the form's descriptors are searched in document order;
// the first whose search text (name, placeholder and label, lowercased)
// contains a synonym, or whose name equals a synonym case-insensitively,
// wins. One descriptor may satisfy several canonical fields; no
// de-duplication is applied.
func MapFields(form dom.FormSnapshot) Mapping {
	mapping := make(Mapping)

	for _, field := range vocab.Fields {
		for _, fs := range form.Fields {
			if !matchesAny(fs, vocab.Synonyms(field)) {
				continue
			}
			mapping[field] = buildSelector(fs)
			break
		}
	}
	return mapping
}

// SuggestedMappings is the diagnostic variant for the manual-mapping UI.
// Instead of stopping at the first hit it scores every descriptor by how
// many synonyms its search text contains, and returns all descriptors with
// a non-zero score as "name (N matches)" strings, in document order.
func SuggestedMappings(form dom.FormSnapshot) map[vocab.Field][]string {
	suggestions := make(map[vocab.Field][]string)

	for _, fs := range form.Fields {
		text := searchText(fs)
		for _, field := range vocab.Fields {
			score := 0
			for _, syn := range vocab.Synonyms(field) {
				if strings.Contains(text, strings.ToLower(syn)) {
					score++
				}
			}
			if score > 0 {
				suggestions[field] = append(suggestions[field],
					fmt.Sprintf("%s (%d matches)", fs.Name, score))
			}
		}
	}
	return suggestions
}

func matchesAny(fs dom.FieldSnapshot, synonyms []string) bool {
	text := searchText(fs)
	name := strings.ToLower(fs.Name)
	for _, syn := range synonyms {
		s := strings.ToLower(syn)
		if strings.Contains(text, s) || name == s {
			return true
		}
	}
	return false
}

func searchText(fs dom.FieldSnapshot) string {
	return strings.ToLower(fs.Name + " " + fs.Placeholder + " " + fs.Label)
}

// buildSelector joins the available identifiers of a matched descriptor:
// [name=] and [id=] on the descriptor name, plus #id when the element has
// a literal id.
func buildSelector(fs dom.FieldSnapshot) string {
	var parts []string
	if fs.Name != "" {
		parts = append(parts, fmt.Sprintf("[name=%q]", fs.Name))
		parts = append(parts, fmt.Sprintf("[id=%q]", fs.Name))
	}
	if fs.ID != "" {
		parts = append(parts, "#"+fs.ID)
	}
	return strings.Join(parts, ", ")
}
