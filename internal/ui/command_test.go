package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/user/loglens/internal/highlight"
	"github.com/user/loglens/internal/store"
)

func openStore(t *testing.T, content string) *store.LogStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cmd.log")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	st, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestHideAndShowCommands(t *testing.T) {
	st := openStore(t, "Error: a\nInfo: b\nError: c\n")
	eng := highlight.NewEngine()

	if _, err := handleCommand("hd Error", 0, st, eng); err != nil {
		t.Fatal(err)
	}
	if st.IsVisible(0) || !st.IsVisible(1) || st.IsVisible(2) {
		t.Error("hd left the wrong lines visible")
	}

	if _, err := handleCommand("sh Error", 0, st, eng); err != nil {
		t.Fatal(err)
	}
	if !st.IsVisible(0) || st.IsVisible(1) || !st.IsVisible(2) {
		t.Error("sh left the wrong lines visible")
	}
}

func TestSearchCommandJumps(t *testing.T) {
	st := openStore(t, "alpha\nbeta\ngamma beta\n")
	eng := highlight.NewEngine()

	result, err := handleCommand("/beta", 0, st, eng)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Jumped || result.Jump != 1 {
		t.Errorf("result = %+v, want jump to 1", result)
	}
	if eng.SearchPattern() != "beta" {
		t.Errorf("SearchPattern() = %q, want beta", eng.SearchPattern())
	}
}

func TestBareSearchRepeatsLastPattern(t *testing.T) {
	st := openStore(t, "beta\nalpha\nbeta\n")
	eng := highlight.NewEngine()

	// First search from line 0 includes the current line.
	result, err := handleCommand("/beta", 0, st, eng)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Jumped || result.Jump != 0 {
		t.Fatalf("result = %+v, want jump to 0", result)
	}

	// A bare "/" repeats the remembered pattern, excluding the current line.
	result, err = handleCommand("/", result.Jump, st, eng)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Jumped || result.Jump != 2 {
		t.Errorf("repeat result = %+v, want jump to 2", result)
	}
}

func TestBareSearchWithoutHistory(t *testing.T) {
	st := openStore(t, "alpha\n")
	eng := highlight.NewEngine()

	result, err := handleCommand("/", 0, st, eng)
	if err != nil {
		t.Fatal(err)
	}
	if result.Jumped {
		t.Errorf("bare search with no remembered pattern jumped to %d", result.Jump)
	}
}

func TestBackwardSearchCommand(t *testing.T) {
	st := openStore(t, "target\nfiller\ntarget\nfiller\n")
	eng := highlight.NewEngine()

	result, err := handleCommand("?target", 3, st, eng)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Jumped || result.Jump != 2 {
		t.Errorf("result = %+v, want jump to 2", result)
	}
}

func TestHighlightCommand(t *testing.T) {
	st := openStore(t, "a line\n")
	eng := highlight.NewEngine()

	if _, err := handleCommand("hl warn yellow", 0, st, eng); err != nil {
		t.Fatal(err)
	}
	rules := eng.Rules()
	if len(rules) != 1 || rules[0].Pattern != "warn" {
		t.Fatalf("rules = %+v, want one warn rule", rules)
	}

	// Quoted pattern with spaces survives tokenization.
	if _, err := handleCommand(`hl "two words" red`, 0, st, eng); err != nil {
		t.Fatal(err)
	}
	rules = eng.Rules()
	if len(rules) != 2 || rules[1].Pattern != "two words" {
		t.Fatalf("rules = %+v, want quoted pattern", rules)
	}

	if _, err := handleCommand("hl pat notacolor", 0, st, eng); err == nil {
		t.Error("hl accepted an unknown color")
	}
}

func TestSetSearchColorCommand(t *testing.T) {
	st := openStore(t, "a line\n")
	eng := highlight.NewEngine()

	if _, err := handleCommand("set search_color cyan", 0, st, eng); err != nil {
		t.Fatal(err)
	}
	want, _ := highlight.LookupColor("cyan")
	if eng.SearchColor() != want {
		t.Errorf("SearchColor() = %q, want %q", eng.SearchColor(), want)
	}

	if _, err := handleCommand("set bogus_key x", 0, st, eng); err == nil {
		t.Error("set accepted an unknown setting")
	}
}

func TestUnknownAndEmptyCommands(t *testing.T) {
	st := openStore(t, "a line\n")
	eng := highlight.NewEngine()

	if _, err := handleCommand("frobnicate", 0, st, eng); err == nil {
		t.Error("unknown command did not error")
	}
	if _, err := handleCommand("   ", 0, st, eng); err != nil {
		t.Error("blank input errored")
	}
	// Missing arguments are ignored, matching the per-command recovery rule.
	if _, err := handleCommand("hd", 0, st, eng); err != nil {
		t.Error("hd with no args errored")
	}
}
