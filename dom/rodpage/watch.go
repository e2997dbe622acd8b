package rodpage

import (
	"context"
	"fmt"

	"github.com/ysmood/gson"
)

// watchJS installs a MutationObserver that pings the exposed binding
// whenever a form-related element enters or leaves the subtree. Other
// mutations never cross the CDP boundary.
const watchJS = `() => {
	if (window.__jobfillObserver) return;
	const relevant = n => n.nodeType === Node.ELEMENT_NODE &&
		(n.matches('form, input, select, textarea') ||
		 !!n.querySelector('form, input, select, textarea'));
	const mo = new MutationObserver(muts => {
		for (const m of muts) {
			const nodes = [...m.addedNodes, ...m.removedNodes];
			if (nodes.some(relevant)) {
				window.__jobfillMutation('');
				return;
			}
		}
	});
	mo.observe(document.documentElement, { childList: true, subtree: true });
	window.__jobfillObserver = mo;
}`

// Watch implements dom.Watcher: fn fires once per qualifying mutation
// burst; debouncing is the caller's concern.
func (p *Page) Watch(ctx context.Context, fn func()) (func(), error) {
	stopExpose, err := p.page.Expose("__jobfillMutation", func(gson.JSON) (interface{}, error) {
		fn()
		return nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("rodpage: expose binding: %w", err)
	}

	if _, err := p.page.Context(ctx).Eval(watchJS); err != nil {
		stopExpose()
		return nil, fmt.Errorf("rodpage: install observer: %w", err)
	}

	stop := func() {
		// Best effort: the page may already be gone.
		_, _ = p.page.Eval(`() => {
			if (window.__jobfillObserver) {
				window.__jobfillObserver.disconnect();
				delete window.__jobfillObserver;
			}
		}`)
		stopExpose()
	}
	return stop, nil
}
