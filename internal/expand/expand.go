package expand

import (
	"fmt"
	"os"
	"path/filepath"
)

// Materializer writes a single logical line, hard-wrapped at terminal width,
// into a temp file so it can be paged as its own store. This is glue around
// the store, not part of it: the expanded view is just a second store over
// the materialized file.
type Materializer struct {
	dir string
}

// NewMaterializer creates a materializer writing under the system temp dir.
func NewMaterializer() *Materializer {
	return &Materializer{dir: os.TempDir()}
}

// WriteLine writes text into a fresh temp file, broken into cols-sized
// chunks each terminated with a newline, and returns the file path.
// An empty line yields an empty file, which indexes as one empty line.
func (m *Materializer) WriteLine(text string, cols int) (string, error) {
	if cols <= 0 {
		return "", fmt.Errorf("invalid width %d", cols)
	}

	f, err := os.CreateTemp(m.dir, "loglens-expand-*.log")
	if err != nil {
		return "", fmt.Errorf("create expand file: %w", err)
	}
	defer f.Close()

	data := []byte(text)
	for len(data) > 0 {
		n := cols
		if n > len(data) {
			n = len(data)
		}
		if _, err := f.Write(data[:n]); err != nil {
			os.Remove(f.Name())
			return "", fmt.Errorf("write expand file: %w", err)
		}
		if _, err := f.Write([]byte{'\n'}); err != nil {
			os.Remove(f.Name())
			return "", fmt.Errorf("write expand file: %w", err)
		}
		data = data[n:]
	}

	return f.Name(), nil
}

// Cleanup removes a materialized file.
func (m *Materializer) Cleanup(path string) error {
	if path == "" {
		return nil
	}
	if filepath.Dir(path) != filepath.Clean(m.dir) {
		return fmt.Errorf("refusing to remove %s: not a materialized file", path)
	}
	return os.Remove(path)
}
