package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_PersistsModes(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"%{a}", modeTemplate},
		{"help", modeCtrl},
		{"<#if(a==b)>x</#if>", modeTemplate},
	} {
		if _, err := h.WriteWithMode(e.Line, e.Mode); err != nil {
			t.Fatalf("WriteWithMode(%q): %v", e.Line, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "T:%{a}\nC:help\nT:<#if(a==b)>x</#if>\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !slices.Equal(reloaded.Entries(), h.Entries()) {
		t.Errorf("reloaded %v, want %v", reloaded.Entries(), h.Entries())
	}
}

func TestHistory_Dedupe(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "b", "a"} {
		if _, err := h.Write(line); err != nil {
			t.Fatal(err)
		}
	}

	// Same line in another mode is distinct.
	if _, err := h.WriteWithMode("a", modeCtrl); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{{"b", modeTemplate}, {"a", modeTemplate}, {"a", modeCtrl}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "T:b\nT:a\nC:a\n" {
		t.Errorf("file = %q", data)
	}
}

func TestHistory_UnprefixedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	if err := os.WriteFile(path, []byte("%{x}\n\nC:quit\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{{"%{x}", modeTemplate}, {"quit", modeCtrl}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("")

	if _, err := h.Write("  spaced  "); err != nil {
		t.Fatal(err)
	}

	if n, _ := h.Write("   "); n != 0 || h.Len() != 1 {
		t.Errorf("blank entry should be ignored, len=%d", h.Len())
	}

	line, err := h.GetLine(0)
	if err != nil || line != "spaced" {
		t.Errorf("GetLine(0) = %q, %v", line, err)
	}

	if _, err := h.GetEntry(5); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}
