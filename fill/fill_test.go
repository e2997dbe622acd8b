package fill

import (
	"context"
	"testing"

	"github.com/hazyhaar/jobfill/dom"
	"github.com/hazyhaar/jobfill/dom/htmldoc"
	"github.com/hazyhaar/jobfill/formscan"
)

func TestTruthy_PolicyTable(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"on", true},
		{"TRUE", true},
		{"Yes", true},
		{"false", false},
		{"no", false},
		{"", false},
		{0, false},
		{1, true},
		{-1, true},
		{int64(0), false},
		{int64(2), true},
		{0.0, false},
		{0.5, true},
		{true, true},
		{false, false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := Truthy(tc.in); got != tc.want {
			t.Errorf("Truthy(%#v): got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSkippable(t *testing.T) {
	if !Skippable(nil) || !Skippable("") {
		t.Error("nil and empty string must be skippable")
	}
	if Skippable("x") || Skippable(0) || Skippable(false) {
		t.Error("non-empty values must not be skippable")
	}
}

const fillPage = `<html><body><form id="apply">
	<input name="firstName">
	<input name="email" id="email-field">
	<input type="checkbox" name="willingToRelocate">
	<input name="phone" value="keep-me">
	<textarea name="experience"></textarea>
</form></body></html>`

func newExecutor(t *testing.T) (*Executor, *htmldoc.Document) {
	t.Helper()
	doc, err := htmldoc.ParseString(fillPage, "https://example.com/apply")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return New(doc, nil), doc
}

func TestFill_GenericFallback(t *testing.T) {
	e, doc := newExecutor(t)
	ctx := context.Background()

	n := e.Fill(ctx, map[string]any{
		"firstName":         "Jane",
		"willingToRelocate": "yes",
		"experience":        "5 years",
	})
	if n != 3 {
		t.Fatalf("written: got %d, want 3", n)
	}

	forms, _ := doc.Forms(ctx)
	byName := indexFields(forms[0])
	if byName["firstName"].Value != "Jane" {
		t.Errorf("firstName: got %q", byName["firstName"].Value)
	}
	if byName["experience"].Value != "5 years" {
		t.Errorf("experience: got %q", byName["experience"].Value)
	}
}

func TestFill_SkipsEmptyValues(t *testing.T) {
	e, doc := newExecutor(t)
	ctx := context.Background()

	n := e.Fill(ctx, map[string]any{"phone": "", "firstName": nil})
	if n != 0 {
		t.Fatalf("written: got %d, want 0", n)
	}

	forms, _ := doc.Forms(ctx)
	if got := indexFields(forms[0])["phone"].Value; got != "keep-me" {
		t.Errorf("phone: got %q, want untouched %q", got, "keep-me")
	}
	if len(doc.DispatchedEvents()) != 0 {
		t.Errorf("events dispatched for skipped values: %v", doc.DispatchedEvents())
	}
}

func TestFill_EventsOnGenericPath(t *testing.T) {
	e, doc := newExecutor(t)
	e.Fill(context.Background(), map[string]any{"firstName": "Jane"})

	events := doc.DispatchedEvents()
	if len(events) != 2 || events[0].Type != "input" || events[1].Type != "change" {
		t.Fatalf("events: got %v, want input then change", events)
	}
}

func TestFillMapped_BlurOnInPagePath(t *testing.T) {
	e, doc := newExecutor(t)
	ctx := context.Background()

	forms, _ := doc.Forms(ctx)
	mapping := formscan.MapFields(forms[0])

	n := e.FillMapped(ctx, mapping, map[string]any{"email": "jane@x.com"})
	if n != 1 {
		t.Fatalf("written: got %d, want 1", n)
	}

	events := doc.DispatchedEvents()
	if len(events) != 3 || events[2].Type != "blur" {
		t.Fatalf("events: got %v, want input, change, blur", events)
	}
}

func TestFillMapped_UnmappedKeysIgnored(t *testing.T) {
	e, _ := newExecutor(t)
	n := e.FillMapped(context.Background(), formscan.Mapping{},
		map[string]any{"email": "jane@x.com"})
	if n != 0 {
		t.Fatalf("written: got %d, want 0", n)
	}
}

func TestFill_CheckboxTruthy(t *testing.T) {
	e, doc := newExecutor(t)
	ctx := context.Background()

	n := e.Fill(ctx, map[string]any{"willingToRelocate": "yes"})
	if n != 1 {
		t.Fatalf("written: got %d, want 1", n)
	}
	// Checked state, not value assignment: no input/change events.
	if len(doc.DispatchedEvents()) != 0 {
		t.Errorf("checkbox writes must not dispatch value events: %v", doc.DispatchedEvents())
	}
}

func TestFill_UnmatchedKeyIsolated(t *testing.T) {
	e, doc := newExecutor(t)
	ctx := context.Background()

	// A key whose selector matches nothing plus a good key: the good one
	// must still be written, silently.
	n := e.Fill(ctx, map[string]any{"noSuchField": "x", "firstName": "Jane"})
	if n != 1 {
		t.Fatalf("written: got %d, want 1", n)
	}
	forms, _ := doc.Forms(ctx)
	if indexFields(forms[0])["firstName"].Value != "Jane" {
		t.Error("firstName not written")
	}
}

func indexFields(form dom.FormSnapshot) map[string]dom.FieldSnapshot {
	byName := make(map[string]dom.FieldSnapshot, len(form.Fields))
	for _, f := range form.Fields {
		byName[f.Name] = f
	}
	return byName
}
