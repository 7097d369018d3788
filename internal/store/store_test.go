package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openStore(t *testing.T, content string) *LogStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	st, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// numberedLines returns n lines "line 0".."line n-1", each on its own row.
func numberedLines(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	return b.String()
}

func TestVisibleWindowAllVisible(t *testing.T) {
	st := openStore(t, numberedLines(5))

	window := st.VisibleWindow(0, 3)
	if len(window) != 3 {
		t.Fatalf("len(window) = %d, want 3", len(window))
	}
	for i, line := range window {
		if line.Number != i {
			t.Errorf("window[%d].Number = %d, want %d", i, line.Number, i)
		}
		if want := fmt.Sprintf("line %d", i); line.Text != want {
			t.Errorf("window[%d].Text = %q, want %q", i, line.Text, want)
		}
	}

	// Asking past the end caps at the line count.
	window = st.VisibleWindow(0, 10)
	if len(window) != 5 {
		t.Errorf("len(window) = %d, want 5", len(window))
	}
}

func TestVisibleWindowSkipsHidden(t *testing.T) {
	st := openStore(t, numberedLines(4))
	st.HideLine(1)

	window := st.VisibleWindow(0, 10)
	want := []int{0, 2, 3}
	if len(window) != len(want) {
		t.Fatalf("len(window) = %d, want %d", len(window), len(want))
	}
	for i, num := range want {
		if window[i].Number != num {
			t.Errorf("window[%d].Number = %d, want %d", i, window[i].Number, num)
		}
	}
}

func TestVisibleWindowBackwardFallback(t *testing.T) {
	st := openStore(t, numberedLines(5))
	st.HideLine(3)
	st.HideLine(4)

	// Nothing visible at or after the start: fall back to the nearest
	// visible line before it.
	window := st.VisibleWindow(3, 10)
	if len(window) != 1 {
		t.Fatalf("len(window) = %d, want 1", len(window))
	}
	if window[0].Number != 2 {
		t.Errorf("window[0].Number = %d, want 2", window[0].Number)
	}
}

func TestVisibleWindowPlaceholder(t *testing.T) {
	st := openStore(t, numberedLines(3))
	st.HideAll()

	window := st.VisibleWindow(0, 10)
	if len(window) != 1 {
		t.Fatalf("len(window) = %d, want 1", len(window))
	}
	if window[0].Number != 0 || window[0].Text != "No visible lines" {
		t.Errorf("placeholder = %+v", window[0])
	}
}

func TestVisibleWindowUnreadableLineLength(t *testing.T) {
	st := openStore(t, "ok\n\xff\xfe\xfd\xfc\xfb\xfa\nend\n")

	window := st.VisibleWindow(0, 3)
	if len(window) != 3 {
		t.Fatalf("len(window) = %d, want 3", len(window))
	}

	// The middle line does not decode: its text is empty but its byte
	// length survives so wrap-row math stays consistent with pagination.
	if window[1].Text != "" {
		t.Errorf("window[1].Text = %q, want empty", window[1].Text)
	}
	if window[1].Length != 6 {
		t.Errorf("window[1].Length = %d, want 6", window[1].Length)
	}
	if window[0].Length != 2 || window[2].Length != 3 {
		t.Errorf("readable lengths = %d/%d, want 2/3",
			window[0].Length, window[2].Length)
	}
}

func TestSearchSkipsHiddenLines(t *testing.T) {
	st := openStore(t, "Error: a\nInfo: b\nError: c\n")
	st.HideLine(1)

	line, found := st.Search("Error", 0, false, SearchForward)
	if !found || line != 2 {
		t.Errorf("Search excluding current = %d, %v, want 2, true", line, found)
	}

	line, found = st.Search("Error", 0, true, SearchForward)
	if !found || line != 0 {
		t.Errorf("Search including current = %d, %v, want 0, true", line, found)
	}
}

func TestSearchBackward(t *testing.T) {
	st := openStore(t, "alpha\nbeta\nalpha\nbeta\n")

	line, found := st.Search("alpha", 3, true, SearchBackward)
	if !found || line != 2 {
		t.Errorf("backward from 3 = %d, %v, want 2, true", line, found)
	}

	line, found = st.Search("alpha", 2, false, SearchBackward)
	if !found || line != 0 {
		t.Errorf("backward from 2 excluding current = %d, %v, want 0, true", line, found)
	}
}

func TestSearchBackwardFromLineZero(t *testing.T) {
	st := openStore(t, "alpha\nbeta\n")

	// Excluding the current line at line 0 would scan from -1: defined as
	// no match, never a panic.
	if line, found := st.Search("alpha", 0, false, SearchBackward); found {
		t.Errorf("backward from 0 excluding current = %d, true, want no match", line)
	}
}

func TestSearchMisses(t *testing.T) {
	st := openStore(t, "alpha\nbeta\n")

	if _, found := st.Search("gamma", 0, true, SearchForward); found {
		t.Error("found pattern not in file")
	}
	// Case-sensitive substring match only.
	if _, found := st.Search("ALPHA", 0, true, SearchForward); found {
		t.Error("search is not case-sensitive")
	}
}

func TestWrapRows(t *testing.T) {
	cases := []struct {
		name                            string
		lineLen, cols, maxRows, rowsLeft int
		want                            int
	}{
		{"empty_line_one_row", 0, 80, 3, 10, 1},
		{"fits_one_row", 79, 80, 3, 10, 1},
		{"exact_width", 80, 80, 3, 10, 1},
		{"wraps_two", 81, 80, 3, 10, 2},
		{"capped_by_max", 500, 80, 3, 10, 3},
		{"capped_by_budget", 500, 80, 10, 2, 2},
		{"budget_below_one", 500, 80, 3, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WrapRows(tc.lineLen, tc.cols, tc.maxRows, tc.rowsLeft)
			if got != tc.want {
				t.Errorf("WrapRows(%d, %d, %d, %d) = %d, want %d",
					tc.lineLen, tc.cols, tc.maxRows, tc.rowsLeft, got, tc.want)
			}
		})
	}
}

func TestEndOfFileWindowSingleRowLines(t *testing.T) {
	st := openStore(t, numberedLines(10))

	start, end := st.EndOfFileWindow(3, 80, 3)
	if start != 7 || end != 9 {
		t.Errorf("EndOfFileWindow = (%d, %d), want (7, 9)", start, end)
	}
}

func TestEndOfFileWindowSkipsHidden(t *testing.T) {
	st := openStore(t, numberedLines(10))
	st.HideLine(9)
	st.HideLine(7)

	start, end := st.EndOfFileWindow(3, 80, 3)
	if end != 8 {
		t.Errorf("end = %d, want anchor 8", end)
	}
	// Visible lines in the window: 8, 6, 5 (7 is hidden and costs nothing).
	if start > 5 {
		t.Errorf("start = %d, want <= 5", start)
	}
	if got := len(st.VisibleWindow(start, 3)); got != 3 {
		t.Errorf("window from %d holds %d visible lines, want 3", start, got)
	}
}

func TestEndOfFileWindowWrappedLines(t *testing.T) {
	// Three lines of 160 bytes: two rows each at cols=80.
	line := strings.Repeat("x", 160)
	st := openStore(t, line+"\n"+line+"\n"+line+"\n")

	// Budget 4 rows: anchor (2 rows) + line 1 (2 rows) fill it exactly.
	start, end := st.EndOfFileWindow(4, 80, 3)
	if start != 1 || end != 2 {
		t.Errorf("EndOfFileWindow = (%d, %d), want (1, 2)", start, end)
	}
}

func TestEndOfFileWindowCapsEarlierLines(t *testing.T) {
	// One 500-byte line: 7 uncapped rows at cols=80.
	st := openStore(t, strings.Repeat("x", 500)+"\nshort\n")

	// Anchor is "short" (1 row); the long line above is capped at
	// maxRowsPerLine=3, so 1+3=4 <= 5 and both fit.
	start, end := st.EndOfFileWindow(5, 80, 3)
	if start != 0 || end != 1 {
		t.Errorf("EndOfFileWindow = (%d, %d), want (0, 1)", start, end)
	}
}

func TestEndOfFileWindowAnchorOverflows(t *testing.T) {
	st := openStore(t, "first\n"+strings.Repeat("x", 500)+"\n")

	// Budget 2, anchor occupies min(7, cap=5, budget=2) = 2 rows: the
	// accumulator reaches the budget before any earlier candidate fits.
	start, end := st.EndOfFileWindow(2, 80, 5)
	if start != 1 || end != 1 {
		t.Errorf("EndOfFileWindow = (%d, %d), want (1, 1)", start, end)
	}
}

func TestEndOfFileWindowNoVisibleLines(t *testing.T) {
	st := openStore(t, numberedLines(3))
	st.HideAll()

	start, end := st.EndOfFileWindow(3, 80, 3)
	if start != 0 || end != 0 {
		t.Errorf("EndOfFileWindow = (%d, %d), want (0, 0)", start, end)
	}
}

func TestIsolateRestoreThroughStore(t *testing.T) {
	st := openStore(t, numberedLines(4))
	st.HideLine(0)

	st.Isolate(2)
	if got := st.VisibleLineCount(); got != 1 {
		t.Fatalf("VisibleLineCount() after isolate = %d, want 1", got)
	}

	if !st.Restore() {
		t.Fatal("Restore() = false")
	}
	if got := st.VisibleLineCount(); got != 3 {
		t.Errorf("VisibleLineCount() after restore = %d, want 3", got)
	}
	if st.IsVisible(0) {
		t.Error("restore resurrected a line hidden before isolate")
	}
}

func TestShowMatchingCounts(t *testing.T) {
	st := openStore(t, "Error: a\nInfo: b\nError: c\nInfo: d\nError: e\n")

	st.ShowMatching(func(s string) bool { return strings.Contains(s, "Error") })

	if got := st.VisibleLineCount(); got != 3 {
		t.Errorf("VisibleLineCount() = %d, want 3", got)
	}
	for i, want := range []bool{true, false, true, false, true} {
		if st.IsVisible(i) != want {
			t.Errorf("IsVisible(%d) = %v, want %v", i, st.IsVisible(i), want)
		}
	}
}
