// Package inspector is the per-page context: it owns the detector,
// mapper and fill executor bound to one live document, rescans on DOM
// mutation bursts and answers page-addressed requests from the bus.
package inspector

import (
	"context"
	"log/slog"
	"time"

	"github.com/hazyhaar/jobfill/bridge"
	"github.com/hazyhaar/jobfill/dom"
	"github.com/hazyhaar/jobfill/fill"
	"github.com/hazyhaar/jobfill/formscan"
)

// DefaultDebounce is the trailing-edge rescan delay after the first
// qualifying mutation in a burst.
const DefaultDebounce = 500 * time.Millisecond

// Config for creating an Inspector.
type Config struct {
	// Name is this inspector's peer name on the bus (page identifier).
	Name string
	// Coordinator is the bus name FORMS_DETECTED notifications go to.
	Coordinator string
	Page        dom.Page
	// Watcher is optional; without one the page is only scanned on
	// request (htmldoc documents don't mutate).
	Watcher  dom.Watcher
	Bus      *bridge.Bus
	Debounce time.Duration
	Logger   *slog.Logger
}

// Inspector binds the heuristic core to one page.
type Inspector struct {
	name        string
	coordinator string
	page        dom.Page
	watcher     dom.Watcher
	bus         *bridge.Bus
	conn        *bridge.Conn
	exec        *fill.Executor
	debounce    time.Duration
	logger      *slog.Logger

	mutCh chan struct{}
}

// New creates an Inspector. Call Run to register it on the bus and
// start observing.
func New(cfg Config) *Inspector {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	return &Inspector{
		name:        cfg.Name,
		coordinator: cfg.Coordinator,
		page:        cfg.Page,
		watcher:     cfg.Watcher,
		bus:         cfg.Bus,
		conn:        cfg.Bus.Conn(cfg.Name),
		exec:        fill.New(cfg.Page, cfg.Logger),
		debounce:    cfg.Debounce,
		logger:      cfg.Logger,
		mutCh:       make(chan struct{}, 1),
	}
}

// Run registers the inspector on the bus, runs an initial scan, and
// observes mutations until ctx is cancelled. It blocks; run it in a
// goroutine. On return the inspector is unregistered, so in-flight
// requests to this page fail over to the unanswered-request path.
func (ins *Inspector) Run(ctx context.Context) error {
	ins.bus.Register(ins.name, ins.handle)
	defer ins.bus.Unregister(ins.name)

	if ins.watcher != nil {
		stop, err := ins.watcher.Watch(ctx, ins.onMutation)
		if err != nil {
			return err
		}
		defer stop()
	}

	ins.rescan(ctx)
	ins.loop(ctx)
	return nil
}

// onMutation coalesces mutation callbacks into a single pending signal.
func (ins *Inspector) onMutation() {
	select {
	case ins.mutCh <- struct{}{}:
	default:
	}
}

// loop is the debounce state machine: a single-shot timer reset on each
// qualifying mutation, so at most one rescan is pending at a time.
func (ins *Inspector) loop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ins.mutCh:
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(ins.debounce)
			timerC = timer.C

		case <-timerC:
			timer = nil
			timerC = nil
			ins.rescan(ctx)

		case <-ctx.Done():
			return
		}
	}
}

// rescan re-runs detection and notifies the coordinator when job forms
// are present.
func (ins *Inspector) rescan(ctx context.Context) {
	report, err := ins.detect(ctx, false)
	if err != nil {
		ins.logger.Warn("inspector: rescan failed", "page", ins.name, "error", err)
		return
	}
	if len(report.Forms) == 0 {
		return
	}
	ins.logger.Info("inspector: job forms detected",
		"page", ins.name, "url", report.URL, "forms", len(report.Forms))
	if err := ins.conn.Notify(ctx, ins.coordinator, bridge.KindFormsDetected, report); err != nil {
		ins.logger.Warn("inspector: notify failed", "page", ins.name, "error", err)
	}
}

// detect snapshots the page and runs the job-form heuristics. With
// withValues the per-field current values are included (GET_FORM_DATA).
func (ins *Inspector) detect(ctx context.Context, withValues bool) (bridge.DetectionReport, error) {
	forms, err := ins.page.Forms(ctx)
	if err != nil {
		return bridge.DetectionReport{}, err
	}

	url := ins.page.URL()
	detected := formscan.DetectJobForms(forms, url)
	report := bridge.DetectionReport{Page: ins.name, URL: url}
	for _, f := range detected {
		if withValues {
			// Diagnostic path: current values plus the outer HTML for
			// preview rendering.
			report.Forms = append(report.Forms, bridge.FormReport{
				DetectedForm: formscan.FormData(f),
				HTML:         f.HTML,
			})
		} else {
			report.Forms = append(report.Forms, bridge.FormReport{
				DetectedForm: formscan.Inventory(f),
			})
		}
	}
	return report, nil
}

// autofill writes values into the page. Detected job forms take the
// mapped path (canonical-field selectors, in-page event set); when no
// job form is recognized the generic attribute-selector fallback runs
// across the whole document.
func (ins *Inspector) autofill(ctx context.Context, values map[string]any) int {
	forms, err := ins.page.Forms(ctx)
	if err != nil {
		ins.logger.Warn("inspector: autofill snapshot failed", "page", ins.name, "error", err)
		return 0
	}

	detected := formscan.DetectJobForms(forms, ins.page.URL())
	if len(detected) == 0 {
		return ins.exec.Fill(ctx, values)
	}

	filled := 0
	for _, f := range detected {
		mapping := formscan.MapFields(f)
		filled += ins.exec.FillMapped(ctx, mapping, values)
	}
	return filled
}
