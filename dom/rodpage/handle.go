package rodpage

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
)

type handle struct {
	el *rod.Element
}

func (h *handle) Kind(ctx context.Context) (string, error) {
	res, err := h.el.Context(ctx).Eval(`() => {
		const tag = this.tagName.toLowerCase();
		if (tag === 'input') return this.getAttribute('type') || 'text';
		return tag;
	}`)
	if err != nil {
		return "", fmt.Errorf("rodpage: kind: %w", err)
	}
	return res.Value.Str(), nil
}

// SetValue writes through the element's value property (not the
// attribute) so framework-managed inputs pick it up, then dispatches
// the named bubbling events in order.
func (h *handle) SetValue(ctx context.Context, value string, events ...string) error {
	_, err := h.el.Context(ctx).Eval(`(value, events) => {
		this.value = value;
		for (const type of events) {
			this.dispatchEvent(new Event(type, { bubbles: true }));
		}
	}`, value, events)
	if err != nil {
		return fmt.Errorf("rodpage: set value: %w", err)
	}
	return nil
}

func (h *handle) SetChecked(ctx context.Context, checked bool) error {
	_, err := h.el.Context(ctx).Eval(`(on) => { this.checked = on; }`, checked)
	if err != nil {
		return fmt.Errorf("rodpage: set checked: %w", err)
	}
	return nil
}
