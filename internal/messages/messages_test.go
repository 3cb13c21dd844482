package messages

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	table := MustLoad("es")
	if got := table.Resolve("job_already_applied"); got != "Ya has aplicado a esta oferta" {
		t.Errorf("Resolve(job_already_applied) = %q", got)
	}
	generic, _ := table.Lookup(DefaultKey)
	if got := table.Resolve("no_such_code"); got != generic {
		t.Errorf("Resolve(unknown) = %q, want generic %q", got, generic)
	}
	if got := table.Resolve(""); got != generic {
		t.Errorf("Resolve(empty) = %q, want generic", got)
	}
}

func TestLocalesShareKeys(t *testing.T) {
	es, en := MustLoad("es"), MustLoad("en")
	for code := range es.entries {
		if _, ok := en.Lookup(code); !ok {
			t.Errorf("en table missing %q", code)
		}
	}
	if len(es.entries) != len(en.entries) {
		t.Errorf("es has %d entries, en has %d", len(es.entries), len(en.entries))
	}
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.json")
	if err := os.WriteFile(path, []byte(`{"job_already_applied":"Already in!","custom_code":"Custom"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	table, err := Load("en", path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := table.Resolve("job_already_applied"); got != "Already in!" {
		t.Errorf("override not applied: %q", got)
	}
	if got := table.Resolve("custom_code"); got != "Custom" {
		t.Errorf("custom code = %q", got)
	}
	if got := table.Resolve("job_not_found"); got != "Job not found" {
		t.Errorf("embedded entry lost: %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("xx", ""); err == nil {
		t.Error("unknown locale should fail")
	}
	if _, err := Load("en", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing override should fail")
	}
}

func TestInboxKeepsNewest(t *testing.T) {
	inbox := NewInbox(2, nil)
	inbox.Error("one")
	inbox.Error("two")
	inbox.Error("three")

	got := inbox.Drain()
	if len(got) != 2 || got[0].Message != "two" || got[1].Message != "three" {
		t.Fatalf("Drain() = %+v", got)
	}
	if len(inbox.Drain()) != 0 {
		t.Error("Drain() should clear the inbox")
	}
}
