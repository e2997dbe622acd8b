// Package coordinator is the long-lived jobfill context: it owns the
// profile and site-config store, brokers every cross-context request,
// tracks page lifecycle and fans detection reports out to UI surfaces.
package coordinator

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/hazyhaar/jobfill/bridge"
	"github.com/hazyhaar/jobfill/idgen"
	"github.com/hazyhaar/jobfill/store"
)

// Name is the coordinator's peer name on the bus.
const Name = "coordinator"

// Coordinator brokers requests between UI surfaces, the store and the
// per-page inspectors.
type Coordinator struct {
	bus    *bridge.Bus
	conn   *bridge.Conn
	store  *store.Store
	logger *slog.Logger
	ids    idgen.Generator

	mu      sync.Mutex
	pages   map[string]string // peer name -> URL
	active  string            // most recently loaded page
	reports map[string]bridge.DetectionReport
}

// New creates a Coordinator and registers it on the bus.
func New(bus *bridge.Bus, st *store.Store, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator{
		bus:     bus,
		conn:    bus.Conn(Name),
		store:   st,
		logger:  logger,
		ids:     idgen.Default,
		pages:   make(map[string]string),
		reports: make(map[string]bridge.DetectionReport),
	}
	bus.Register(Name, c.handle)
	return c
}

// PageLoaded records a page as the active one and, when its hostname
// contains an enabled site-config domain, notifies the page's inspector
// with JOB_SITE_DETECTED.
func (c *Coordinator) PageLoaded(ctx context.Context, page, pageURL string) {
	c.mu.Lock()
	c.pages[page] = pageURL
	c.active = page
	c.mu.Unlock()

	domain := c.matchSiteConfig(ctx, pageURL)
	if domain == "" {
		return
	}
	c.logger.Info("coordinator: job site detected", "page", page, "domain", domain)
	notice := bridge.JobSiteNotice{Page: page, Domain: domain}
	if err := c.conn.Notify(ctx, page, bridge.KindJobSiteDetected, notice); err != nil {
		c.logger.Warn("coordinator: notify failed", "page", page, "error", err)
	}
}

// PageClosed forgets a page and its last detection report.
func (c *Coordinator) PageClosed(page string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pages, page)
	delete(c.reports, page)
	if c.active == page {
		c.active = ""
		for p := range c.pages {
			c.active = p
			break
		}
	}
}

// ActivePage returns the peer name of the most recently loaded page,
// empty when no page is attached.
func (c *Coordinator) ActivePage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Reports returns the latest detection report per page. A detection
// notification and a direct DETECT_FORMS response can race; both are
// idempotent refreshes of this same state.
func (c *Coordinator) Reports() []bridge.DetectionReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]bridge.DetectionReport, 0, len(c.reports))
	for _, r := range c.reports {
		out = append(out, r)
	}
	return out
}

// matchSiteConfig returns the first enabled config domain contained in
// the URL's hostname, empty when none matches.
func (c *Coordinator) matchSiteConfig(ctx context.Context, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if host == "" {
		return ""
	}

	configs, err := c.store.ListSiteConfigs(ctx)
	if err != nil {
		c.logger.Warn("coordinator: list site configs", "error", err)
		return ""
	}
	for _, sc := range configs {
		if sc.Enabled && strings.Contains(host, sc.Domain) {
			return sc.Domain
		}
	}
	return ""
}

// resolvePage picks the request's explicit page, else the active one.
func (c *Coordinator) resolvePage(requested string) string {
	if requested != "" {
		return requested
	}
	return c.ActivePage()
}
