// Package fill writes profile values into a page's form fields and
// dispatches the native change notifications host-page frameworks listen
// for. Selectors are re-queried at fill time — forms can mutate between
// mapping and fill, so element handles are never cached.
package fill

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazyhaar/jobfill/dom"
	"github.com/hazyhaar/jobfill/formscan"
	"github.com/hazyhaar/jobfill/vocab"
)

// backgroundEvents are dispatched on the generic fallback path.
var backgroundEvents = []string{"input", "change"}

// inPageEvents add blur on the in-page mapper path, matching what a user
// tabbing through the form would produce.
var inPageEvents = []string{"input", "change", "blur"}

// Truthy interprets a fill value as a checked state. Booleans pass
// through; numbers are truthy iff non-zero; strings are truthy iff equal,
// case-insensitively, to "true", "1", "yes" or "on". Anything else is
// falsy.
func Truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		switch strings.ToLower(x) {
		case "true", "1", "yes", "on":
			return true
		}
		return false
	default:
		return false
	}
}

// Skippable reports whether a value must leave the field untouched: nil
// and the empty string are never written (skip, not clear).
func Skippable(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// Stringify renders a fill value for assignment into a text-like field.
func Stringify(v any) string {
	return fmt.Sprint(v)
}

// Executor fills a single page. Per-field failures are isolated: one bad
// selector or one DOM error never aborts the remaining fields.
type Executor struct {
	page   dom.Page
	logger *slog.Logger
}

// New creates an Executor bound to a page.
func New(page dom.Page, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{page: page, logger: logger}
}

// Fill addresses each value by the generic fallback selector
// [name=k], [id=k], [data-field=k] and writes it into every matching
// element. Returns the number of elements written.
func (e *Executor) Fill(ctx context.Context, values map[string]any) int {
	written := 0
	for key, value := range values {
		if Skippable(value) {
			continue
		}
		selector := fmt.Sprintf("[name=%q], [id=%q], [data-field=%q]", key, key, key)
		written += e.fillSelector(ctx, selector, value, backgroundEvents)
	}
	return written
}

// FillMapped routes values through a mapper-produced mapping, the in-page
// path: only canonical fields the mapper resolved are written, and a blur
// event follows input/change.
func (e *Executor) FillMapped(ctx context.Context, mapping formscan.Mapping, values map[string]any) int {
	written := 0
	for key, value := range values {
		if Skippable(value) {
			continue
		}
		selector, ok := mapping[vocab.Field(key)]
		if !ok {
			continue
		}
		written += e.fillSelector(ctx, selector, value, inPageEvents)
	}
	return written
}

func (e *Executor) fillSelector(ctx context.Context, selector string, value any, events []string) int {
	handles, err := e.page.Query(ctx, selector)
	if err != nil {
		e.logger.Warn("fill: query failed", "selector", selector, "error", err)
		return 0
	}

	written := 0
	for _, h := range handles {
		if err := e.fillOne(ctx, h, value, events); err != nil {
			e.logger.Warn("fill: element write failed", "selector", selector, "error", err)
			continue
		}
		written++
	}
	return written
}

func (e *Executor) fillOne(ctx context.Context, h dom.Handle, value any, events []string) error {
	kind, err := h.Kind(ctx)
	if err != nil {
		return err
	}
	if kind == "checkbox" || kind == "radio" {
		return h.SetChecked(ctx, Truthy(value))
	}
	return h.SetValue(ctx, Stringify(value), events...)
}
