package ui_test

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/jobfill/bridge"
	"github.com/hazyhaar/jobfill/coordinator"
	"github.com/hazyhaar/jobfill/dom/htmldoc"
	"github.com/hazyhaar/jobfill/inspector"
	"github.com/hazyhaar/jobfill/profile"
	"github.com/hazyhaar/jobfill/store"
	"github.com/hazyhaar/jobfill/ui"
	_ "modernc.org/sqlite"
)

const jobPage = `<html><body>
<form id="apply" action="/apply">
  <label for="fn">First Name</label>
  <input id="fn" name="firstName" type="text">
  <input name="email" type="email" placeholder="Email">
  <input name="resume" type="file">
</form>
</body></html>`

func setup(t *testing.T) (*httptest.Server, *bridge.Bus, *coordinator.Coordinator) {
	t.Helper()
	bus := bridge.New()
	t.Cleanup(bus.Close)
	coord := coordinator.New(bus, store.OpenMemory(t), nil)
	srv := httptest.NewServer(ui.New(bus, coord, nil).Routes())
	t.Cleanup(srv.Close)
	return srv, bus, coord
}

// attachPage binds an htmldoc-backed inspector to the bus and registers
// it with the coordinator as the active page.
func attachPage(t *testing.T, bus *bridge.Bus, coord *coordinator.Coordinator, name, pageURL, pageHTML string) {
	t.Helper()
	doc, err := htmldoc.ParseString(pageHTML, pageURL)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ins := inspector.New(inspector.Config{
		Name: name, Coordinator: coordinator.Name, Page: doc, Bus: bus,
	})
	go ins.Run(ctx)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		callCtx, callCancel := context.WithTimeout(ctx, 100*time.Millisecond)
		_, err := bus.Call(callCtx, name, bridge.KindDetectForms, nil)
		callCancel()
		if err == nil {
			coord.PageLoaded(ctx, name, pageURL)
			return
		}
	}
	t.Fatal("inspector never registered")
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv, _, _ := setup(t)
	var out map[string]string
	resp := getJSON(t, srv.URL+"/health", &out)
	if resp.StatusCode != http.StatusOK || out["status"] != "ok" {
		t.Errorf("status %d, body %v", resp.StatusCode, out)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	srv, _, _ := setup(t)

	var p profile.UserProfile
	if resp := getJSON(t, srv.URL+"/api/profile", &p); resp.StatusCode != http.StatusOK {
		t.Fatalf("GET profile: %d", resp.StatusCode)
	}
	if p.PersonalInfo.FirstName != "" {
		t.Errorf("FirstName = %q, want empty default", p.PersonalInfo.FirstName)
	}

	p.PersonalInfo.FirstName = "Jane"
	body, _ := json.Marshal(p)
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/profile", strings.NewReader(string(body)))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT profile: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT profile: %d", resp.StatusCode)
	}

	var got profile.UserProfile
	getJSON(t, srv.URL+"/api/profile", &got)
	if got.PersonalInfo.FirstName != "Jane" {
		t.Errorf("FirstName = %q after update", got.PersonalInfo.FirstName)
	}
}

func TestImportProfile(t *testing.T) {
	srv, _, _ := setup(t)

	text := "Name: Jane Doe\nEmail: jane@x.com\nRelocate: yes\n"
	resp, err := http.Post(srv.URL+"/api/profile/import", "text/plain", strings.NewReader(text))
	if err != nil {
		t.Fatalf("POST import: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import: %d", resp.StatusCode)
	}

	var got profile.UserProfile
	getJSON(t, srv.URL+"/api/profile", &got)
	if got.PersonalInfo.FirstName != "Jane" || got.PersonalInfo.LastName != "Doe" {
		t.Errorf("name = %q %q", got.PersonalInfo.FirstName, got.PersonalInfo.LastName)
	}
	if !got.Preferences.WillingToRelocate {
		t.Error("WillingToRelocate = false")
	}
}

func TestExportProfile(t *testing.T) {
	srv, _, _ := setup(t)

	resp, err := http.Get(srv.URL + "/api/profile/export")
	if err != nil {
		t.Fatalf("GET export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export: %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	var p profile.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Errorf("export body not a profile: %v", err)
	}
}

func TestSiteConfigs(t *testing.T) {
	srv, _, _ := setup(t)

	var configs []profile.SiteConfig
	getJSON(t, srv.URL+"/api/sites", &configs)
	if len(configs) != 3 {
		t.Fatalf("got %d configs, want 3 seeded", len(configs))
	}

	var sc profile.SiteConfig
	if resp := getJSON(t, srv.URL+"/api/sites/linkedin.com", &sc); resp.StatusCode != http.StatusOK {
		t.Fatalf("GET linkedin.com: %d", resp.StatusCode)
	}
	if sc.Domain != "linkedin.com" {
		t.Errorf("Domain = %q", sc.Domain)
	}

	resp := getJSON(t, srv.URL+"/api/sites/nowhere.example", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown domain: %d, want 404", resp.StatusCode)
	}
}

func TestPutSiteConfig(t *testing.T) {
	srv, _, _ := setup(t)

	body := `{"fieldMappings":{"firstName":"#first"},"enabled":true}`
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/sites/jobs.example", strings.NewReader(body))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT site: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT site: %d", resp.StatusCode)
	}

	var sc profile.SiteConfig
	getJSON(t, srv.URL+"/api/sites/jobs.example", &sc)
	if sc.Domain != "jobs.example" || sc.FieldMappings["firstName"] != "#first" {
		t.Errorf("config = %+v", sc)
	}
}

func TestAutofillThroughStack(t *testing.T) {
	srv, bus, coord := setup(t)
	attachPage(t, bus, coord, "page-1", "https://example.com/careers", jobPage)

	// Store a profile first.
	text := "Name: Jane Doe\nEmail: jane@x.com\n"
	resp, err := http.Post(srv.URL+"/api/profile/import", "text/plain", strings.NewReader(text))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Post(srv.URL+"/api/autofill", "application/json", nil)
	if err != nil {
		t.Fatalf("POST autofill: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("autofill: %d", resp.StatusCode)
	}
	var result bridge.AutofillResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Filled != 2 {
		t.Errorf("Filled = %d, want 2 (firstName, email)", result.Filled)
	}
}

func TestAutofillNoPage(t *testing.T) {
	srv, _, _ := setup(t)

	resp, err := http.Post(srv.URL+"/api/autofill", "application/json", nil)
	if err != nil {
		t.Fatalf("POST autofill: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(out["error"], "no active page") {
		t.Errorf("error = %q", out["error"])
	}
}

func TestDetectEndpoint(t *testing.T) {
	srv, bus, coord := setup(t)
	attachPage(t, bus, coord, "page-1", "https://example.com/careers", jobPage)

	resp, err := http.Post(srv.URL+"/api/detect", "application/json", nil)
	if err != nil {
		t.Fatalf("POST detect: %v", err)
	}
	defer resp.Body.Close()
	var report bridge.DetectionReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(report.Forms) != 1 || report.Forms[0].Identity != "apply" {
		t.Errorf("report = %+v", report)
	}
}

func TestPreviewEndpoint(t *testing.T) {
	srv, bus, coord := setup(t)
	attachPage(t, bus, coord, "page-1", "https://example.com/careers", jobPage)

	var previews []ui.FormPreview
	resp := getJSON(t, srv.URL+"/api/preview", &previews)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preview: %d", resp.StatusCode)
	}
	if len(previews) != 1 {
		t.Fatalf("got %d previews, want 1", len(previews))
	}
	if previews[0].Identity != "apply" {
		t.Errorf("Identity = %q", previews[0].Identity)
	}
	if !strings.Contains(previews[0].Markdown, "First Name") {
		t.Errorf("Markdown = %q, want label text", previews[0].Markdown)
	}
}

func TestResumeUploadRejectsGarbage(t *testing.T) {
	srv, _, _ := setup(t)

	var body strings.Builder
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("resume", "cv.pdf")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte("not a pdf"))
	mw.Close()

	resp, err := http.Post(srv.URL+"/api/resume", mw.FormDataContentType(), strings.NewReader(body.String()))
	if err != nil {
		t.Fatalf("POST resume: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestResumeNotFound(t *testing.T) {
	srv, _, _ := setup(t)

	resp := getJSON(t, srv.URL+"/api/resume", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
