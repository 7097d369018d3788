package store

// Line is a transient view of one logical line: its number in the file, its
// decoded text and its trimmed byte length. Lines are produced on demand and
// never stored; the text is a snapshot taken from the mapped buffer at
// lookup time. Length comes from the index and stays meaningful when the
// text does not decode (Text empty), so wrap math agrees with pagination.
type Line struct {
	Number int
	Text   string
	Length int
}

// SearchDirection selects the scan direction for Search.
type SearchDirection int

const (
	SearchForward SearchDirection = iota
	SearchBackward
)

func (d SearchDirection) String() string {
	if d == SearchBackward {
		return "backward"
	}
	return "forward"
}
