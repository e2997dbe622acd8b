// Package dom is the narrow contract jobfill uses to reach a page's
// document. The heuristic core never holds live node references: it reads
// snapshot copies produced here and writes back through selector-addressed
// handles, re-queried at fill time. Two implementations exist: rodpage
// (live Chrome tab over CDP) and htmldoc (in-memory x/net/html document,
// used by tests and the HTTP-fetch diagnostic path).
package dom

import "context"

// FieldSnapshot is a read-only copy of one input, select or textarea.
type FieldSnapshot struct {
	// Name is the name attribute, falling back to the id attribute.
	Name string `json:"name"`
	// ID is the literal id attribute, empty if absent.
	ID string `json:"id"`
	// Type is the input type attribute, or the lowercase tag name for
	// select/textarea.
	Type        string `json:"type"`
	Placeholder string `json:"placeholder"`
	// Label is the resolved label text: label[for] first, then an
	// ancestor <label>, then the first non-empty sibling text node.
	Label    string `json:"label"`
	Value    string `json:"value"`
	Required bool   `json:"required"`
}

// FormSnapshot is a read-only copy of one <form> and its fields, in
// document order. Snapshots stay valid after further DOM mutation; they
// are never updated in place, only replaced by a fresh scan.
type FormSnapshot struct {
	// Identity is the form id, else its class, else "unnamed-form".
	Identity string `json:"identity"`
	Action   string `json:"action"`
	Method   string `json:"method"`
	// Text concatenates the visible text of the form's labels, legends,
	// headings, paragraphs and spans plus its action, class and id
	// attributes. Detection keyword matching runs against it.
	Text string `json:"text"`
	// HasFileInput reports whether the form contains an input[type=file].
	HasFileInput bool `json:"has_file_input"`
	// HTML is the form's outer HTML, kept for diagnostic preview only.
	HTML   string          `json:"html,omitempty"`
	Fields []FieldSnapshot `json:"fields"`
}

// Handle addresses one live element for write-back. Handles are produced
// by Page.Query immediately before use and must not be cached across
// mutations.
type Handle interface {
	// Kind returns the element's input type, or its lowercase tag name
	// when the type attribute is absent.
	Kind(ctx context.Context) (string, error)

	// SetValue assigns the element's value and dispatches the named
	// bubbling events (in order) so host-page frameworks observe the
	// change.
	SetValue(ctx context.Context, value string, events ...string) error

	// SetChecked sets the checked state of a checkbox or radio.
	SetChecked(ctx context.Context, checked bool) error
}

// Page is a document the inspector is bound to.
type Page interface {
	// URL returns the page's current URL.
	URL() string

	// Forms snapshots every <form> in the document, in document order.
	Forms(ctx context.Context) ([]FormSnapshot, error)

	// Query resolves a CSS selector (possibly comma-joined alternatives)
	// to the currently matching elements, in document order.
	Query(ctx context.Context, selector string) ([]Handle, error)
}

// Watcher is implemented by pages that can report subtree mutations.
// The callback fires once per qualifying mutation burst; debouncing is
// the caller's concern.
type Watcher interface {
	// Watch invokes fn whenever a form element is added to (or removed
	// from) the document subtree. The returned stop function cancels the
	// subscription.
	Watch(ctx context.Context, fn func()) (stop func(), err error)
}
