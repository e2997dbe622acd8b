package inspector_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hazyhaar/jobfill/bridge"
	"github.com/hazyhaar/jobfill/dom/htmldoc"
	"github.com/hazyhaar/jobfill/inspector"
)

const jobPage = `<html><body>
<h1>Job Application</h1>
<form id="apply" action="/apply">
  <label for="fn">First Name</label>
  <input id="fn" name="firstName" type="text">
  <label for="ln">Last Name</label>
  <input id="ln" name="lastName" type="text">
  <input name="email" type="email" placeholder="Email">
  <input name="resume" type="file">
</form>
</body></html>`

const plainPage = `<html><body>
<form id="search">
  <input name="q" type="text">
</form>
<input name="email" type="email">
</body></html>`

// fakeWatcher hands the mutation callback to the test.
type fakeWatcher struct {
	fn chan func()
}

func (w *fakeWatcher) Watch(ctx context.Context, fn func()) (func(), error) {
	w.fn <- fn
	return func() {}, nil
}

func startInspector(t *testing.T, bus *bridge.Bus, cfg inspector.Config) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg.Bus = bus
	ins := inspector.New(cfg)
	go ins.Run(ctx)

	// Wait until the peer answers on the bus.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		callCtx, callCancel := context.WithTimeout(ctx, 100*time.Millisecond)
		_, err := bus.Call(callCtx, cfg.Name, bridge.KindDetectForms, nil)
		callCancel()
		if err == nil {
			return
		}
	}
	t.Fatal("inspector never registered on the bus")
}

func TestDetectFormsRequest(t *testing.T) {
	bus := bridge.New()
	defer bus.Close()

	doc, err := htmldoc.ParseString(jobPage, "https://example.com/careers")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	startInspector(t, bus, inspector.Config{Name: "page-1", Coordinator: "coordinator", Page: doc})

	resp, err := bus.Call(context.Background(), "page-1", bridge.KindDetectForms, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	var report bridge.DetectionReport
	if err := resp.Decode(&report); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(report.Forms) != 1 {
		t.Fatalf("got %d forms, want 1", len(report.Forms))
	}
	if report.Forms[0].Identity != "apply" {
		t.Errorf("Identity = %q, want %q", report.Forms[0].Identity, "apply")
	}
	if report.URL != "https://example.com/careers" {
		t.Errorf("URL = %q", report.URL)
	}
	for _, f := range report.Forms[0].Fields {
		if f.Value != "" {
			t.Errorf("inventory field %q carries value %q, want none", f.Name, f.Value)
		}
	}
}

func TestGetFormDataCarriesValues(t *testing.T) {
	bus := bridge.New()
	defer bus.Close()

	page := `<html><body><h2>Job Application</h2>
<form id="apply"><input name="firstName" value="Jane"><input name="cv" type="file"></form>
</body></html>`
	doc, err := htmldoc.ParseString(page, "https://example.com/")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	startInspector(t, bus, inspector.Config{Name: "page-1", Coordinator: "coordinator", Page: doc})

	resp, err := bus.Call(context.Background(), "page-1", bridge.KindGetFormData, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	var report bridge.DetectionReport
	if err := resp.Decode(&report); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(report.Forms) != 1 {
		t.Fatalf("got %d forms, want 1", len(report.Forms))
	}
	var found bool
	for _, f := range report.Forms[0].Fields {
		if f.Name == "firstName" && f.Value == "Jane" {
			found = true
		}
	}
	if !found {
		t.Error("firstName value missing from form data")
	}
}

func TestAutofillMappedPath(t *testing.T) {
	bus := bridge.New()
	defer bus.Close()

	doc, err := htmldoc.ParseString(jobPage, "https://example.com/careers")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	startInspector(t, bus, inspector.Config{Name: "page-1", Coordinator: "coordinator", Page: doc})

	req := bridge.AutofillRequest{Values: map[string]any{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "jane@example.com",
	}}
	resp, err := bus.Call(context.Background(), "page-1", bridge.KindAutofillForm, req)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	var result bridge.AutofillResult
	if err := resp.Decode(&result); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.Filled != 3 {
		t.Errorf("Filled = %d, want 3", result.Filled)
	}

	forms, err := doc.Forms(context.Background())
	if err != nil {
		t.Fatalf("Forms: %v", err)
	}
	for _, f := range forms[0].Fields {
		switch f.Name {
		case "firstName":
			if f.Value != "Jane" {
				t.Errorf("firstName = %q, want %q", f.Value, "Jane")
			}
		case "email":
			if f.Value != "jane@example.com" {
				t.Errorf("email = %q", f.Value)
			}
		}
	}
}

func TestAutofillGenericFallback(t *testing.T) {
	bus := bridge.New()
	defer bus.Close()

	doc, err := htmldoc.ParseString(plainPage, "https://example.com/")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	startInspector(t, bus, inspector.Config{Name: "page-1", Coordinator: "coordinator", Page: doc})

	req := bridge.AutofillRequest{Values: map[string]any{"email": "jane@example.com"}}
	resp, err := bus.Call(context.Background(), "page-1", bridge.KindAutofillForm, req)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	var result bridge.AutofillResult
	if err := resp.Decode(&result); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.Filled != 1 {
		t.Errorf("Filled = %d, want 1 (generic selector)", result.Filled)
	}
}

func TestInitialScanNotifiesCoordinator(t *testing.T) {
	bus := bridge.New()
	defer bus.Close()

	reports := make(chan bridge.DetectionReport, 4)
	bus.Register("coordinator", func(ctx context.Context, msg bridge.Message) bridge.Response {
		if msg.Kind == bridge.KindFormsDetected {
			var r bridge.DetectionReport
			if err := msg.DecodePayload(&r); err != nil {
				t.Errorf("DecodePayload: %v", err)
			}
			reports <- r
		}
		return bridge.OK(nil)
	})

	doc, err := htmldoc.ParseString(jobPage, "https://example.com/careers")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	startInspector(t, bus, inspector.Config{Name: "page-1", Coordinator: "coordinator", Page: doc})

	select {
	case r := <-reports:
		if r.Page != "page-1" || len(r.Forms) != 1 {
			t.Errorf("report = %+v", r)
		}
		if r.Forms[0].Identity != "apply" {
			t.Errorf("Identity = %q", r.Forms[0].Identity)
		}
	case <-time.After(time.Second):
		t.Fatal("no FORMS_DETECTED after initial scan")
	}
}

func TestMutationBurstDebouncedToOneRescan(t *testing.T) {
	bus := bridge.New()
	defer bus.Close()

	reports := make(chan bridge.DetectionReport, 16)
	bus.Register("coordinator", func(ctx context.Context, msg bridge.Message) bridge.Response {
		if msg.Kind == bridge.KindFormsDetected {
			var r bridge.DetectionReport
			_ = msg.DecodePayload(&r)
			reports <- r
		}
		return bridge.OK(nil)
	})

	watcher := &fakeWatcher{fn: make(chan func(), 1)}
	doc, err := htmldoc.ParseString(jobPage, "https://example.com/careers")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	startInspector(t, bus, inspector.Config{
		Name: "page-1", Coordinator: "coordinator",
		Page: doc, Watcher: watcher, Debounce: 40 * time.Millisecond,
	})

	// Initial scan fires one report.
	select {
	case <-reports:
	case <-time.After(time.Second):
		t.Fatal("no initial report")
	}

	var mutate func()
	select {
	case mutate = <-watcher.fn:
	case <-time.After(time.Second):
		t.Fatal("watcher never subscribed")
	}

	// A burst of mutations inside the window yields exactly one rescan.
	for i := 0; i < 5; i++ {
		mutate()
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-reports:
	case <-time.After(time.Second):
		t.Fatal("no rescan after mutation burst")
	}
	select {
	case r := <-reports:
		t.Fatalf("extra rescan report %+v, want exactly one per burst", r)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestJobSiteNoticeTriggersImmediateRescan(t *testing.T) {
	bus := bridge.New()
	defer bus.Close()

	reports := make(chan bridge.DetectionReport, 4)
	bus.Register("coordinator", func(ctx context.Context, msg bridge.Message) bridge.Response {
		if msg.Kind == bridge.KindFormsDetected {
			var r bridge.DetectionReport
			_ = msg.DecodePayload(&r)
			reports <- r
		}
		return bridge.OK(nil)
	})

	doc, err := htmldoc.ParseString(jobPage, "https://example.com/careers")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	startInspector(t, bus, inspector.Config{Name: "page-1", Coordinator: "coordinator", Page: doc})

	<-reports // initial scan

	notice := bridge.JobSiteNotice{Page: "page-1", Domain: "example.com"}
	if err := bus.Notify(context.Background(), "page-1", bridge.KindJobSiteDetected, notice); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	select {
	case <-reports:
	case <-time.After(time.Second):
		t.Fatal("no rescan after JOB_SITE_DETECTED")
	}
}

func TestUnrecognizedKindDropped(t *testing.T) {
	bus := bridge.New()
	defer bus.Close()

	doc, err := htmldoc.ParseString(plainPage, "https://example.com/")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	startInspector(t, bus, inspector.Config{Name: "page-1", Coordinator: "coordinator", Page: doc})

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	_, err = bus.Call(ctx, "page-1", bridge.Kind("SOMETHING_ELSE"), nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}
