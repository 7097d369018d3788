package store

// VisibilityOverlay is a per-line boolean mask kept alongside the line index.
// The mask length always equals the line count of the index it shadows.
// One backup slot supports isolate mode; a second isolate before a restore
// overwrites it.
type VisibilityOverlay struct {
	mask   []bool
	backup []bool
}

// NewVisibilityOverlay creates an overlay with every line visible.
func NewVisibilityOverlay(lineCount int) *VisibilityOverlay {
	mask := make([]bool, lineCount)
	for i := range mask {
		mask[i] = true
	}
	return &VisibilityOverlay{mask: mask}
}

// IsVisible reports whether a line is visible. Out-of-range indices are
// never visible.
func (o *VisibilityOverlay) IsVisible(lineNum int) bool {
	if lineNum < 0 || lineNum >= len(o.mask) {
		return false
	}
	return o.mask[lineNum]
}

// SetVisible sets one line's visibility. Out-of-range indices are ignored.
func (o *VisibilityOverlay) SetVisible(lineNum int, visible bool) {
	if lineNum < 0 || lineNum >= len(o.mask) {
		return
	}
	o.mask[lineNum] = visible
}

// SetAllVisible sets every line's visibility at once.
func (o *VisibilityOverlay) SetAllVisible(visible bool) {
	for i := range o.mask {
		o.mask[i] = visible
	}
}

// VisibleCount returns the number of visible lines.
func (o *VisibilityOverlay) VisibleCount() int {
	count := 0
	for _, v := range o.mask {
		if v {
			count++
		}
	}
	return count
}

// Isolate snapshots the current mask and then shows only the given line.
// Calling Isolate again before Restore overwrites the snapshot.
// An out-of-range index leaves the overlay untouched.
func (o *VisibilityOverlay) Isolate(lineNum int) {
	if lineNum < 0 || lineNum >= len(o.mask) {
		return
	}
	backup := make([]bool, len(o.mask))
	copy(backup, o.mask)
	o.backup = backup

	for i := range o.mask {
		o.mask[i] = false
	}
	o.mask[lineNum] = true
}

// Restore puts back the mask saved by the last Isolate and discards the
// snapshot. It reports whether a snapshot existed.
func (o *VisibilityOverlay) Restore() bool {
	if o.backup == nil {
		return false
	}
	o.mask = o.backup
	o.backup = nil
	return true
}

// HideMatching hides lines whose text satisfies the predicate, leaving all
// other lines untouched.
func (o *VisibilityOverlay) HideMatching(text func(int) (string, bool), pred func(string) bool) {
	for i := range o.mask {
		if s, ok := text(i); ok && pred(s) {
			o.mask[i] = false
		}
	}
}

// ShowMatching shows lines whose text satisfies the predicate and hides all
// others. This is deliberately not the inverse of HideMatching: show is a
// full reclassification, hide only subtracts.
func (o *VisibilityOverlay) ShowMatching(text func(int) (string, bool), pred func(string) bool) {
	for i := range o.mask {
		s, ok := text(i)
		if !ok {
			continue
		}
		o.mask[i] = pred(s)
	}
}
