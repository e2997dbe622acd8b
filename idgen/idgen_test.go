package idgen_test

import (
	"strings"
	"testing"

	"github.com/hazyhaar/jobfill/idgen"
)

func TestNanoIDLength(t *testing.T) {
	gen := idgen.NanoID(12)
	id := gen()
	if len(id) != 12 {
		t.Errorf("len = %d, want 12", len(id))
	}
	for _, r := range id {
		if !strings.ContainsRune("0123456789abcdefghijklmnopqrstuvwxyz", r) {
			t.Errorf("unexpected rune %q in %q", r, id)
		}
	}
}

func TestNanoIDUnique(t *testing.T) {
	gen := idgen.NanoID(16)
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen()
		if seen[id] {
			t.Fatalf("duplicate ID %q after %d draws", id, i)
		}
		seen[id] = true
	}
}

func TestUUIDv7Valid(t *testing.T) {
	id := idgen.UUIDv7()()
	if _, err := idgen.Parse(id); err != nil {
		t.Errorf("Parse(%q): %v", id, err)
	}
}

func TestUUIDv7Sortable(t *testing.T) {
	gen := idgen.UUIDv7()
	a, b := gen(), gen()
	if a >= b {
		t.Errorf("UUIDv7 not monotonic: %q >= %q", a, b)
	}
}

func TestPrefixed(t *testing.T) {
	gen := idgen.Prefixed("msg_", idgen.NanoID(8))
	id := gen()
	if !strings.HasPrefix(id, "msg_") {
		t.Errorf("id %q missing prefix", id)
	}
	if len(id) != len("msg_")+8 {
		t.Errorf("len = %d, want %d", len(id), len("msg_")+8)
	}
}

func TestDefaultIsUUID(t *testing.T) {
	if _, err := idgen.Parse(idgen.Default()); err != nil {
		t.Errorf("Parse(Default()): %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := idgen.Parse("not-a-uuid"); err == nil {
		t.Error("want error for invalid UUID")
	}
}
