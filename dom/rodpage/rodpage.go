// Package rodpage implements the dom contract over a live Chrome tab
// driven by rod. Snapshots are produced by injected JS in one Eval so
// the copy is consistent within a single event-loop turn of the page.
package rodpage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/jobfill/dom"
)

// Page binds one rod page to the dom contract.
type Page struct {
	page *rod.Page
	url  string
}

// New wraps a rod page. initialURL seeds URL() until Forms refreshes it.
func New(page *rod.Page, initialURL string) *Page {
	return &Page{page: page, url: initialURL}
}

// URL returns the last observed page URL.
func (p *Page) URL() string {
	if info, err := p.page.Info(); err == nil && info.URL != "" {
		p.url = info.URL
	}
	return p.url
}

// Forms snapshots every <form> in the document, in document order.
func (p *Page) Forms(ctx context.Context) ([]dom.FormSnapshot, error) {
	res, err := p.page.Context(ctx).Eval(snapshotJS)
	if err != nil {
		return nil, fmt.Errorf("rodpage: snapshot: %w", err)
	}

	data, err := res.Value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("rodpage: snapshot encode: %w", err)
	}
	var forms []dom.FormSnapshot
	if err := json.Unmarshal(data, &forms); err != nil {
		return nil, fmt.Errorf("rodpage: snapshot decode: %w", err)
	}
	return forms, nil
}

// Query resolves a CSS selector to the currently matching elements.
func (p *Page) Query(ctx context.Context, selector string) ([]dom.Handle, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("rodpage: query %q: %w", selector, err)
	}
	handles := make([]dom.Handle, 0, len(els))
	for _, el := range els {
		handles = append(handles, &handle{el: el})
	}
	return handles, nil
}
