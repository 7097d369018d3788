package index

import (
	"bytes"
	"unicode/utf8"

	llio "github.com/user/loglens/internal/io"
)

// LineIndex stores byte offsets and trimmed lengths for each logical line in
// a mapped file. Lengths exclude the line feed and, for CRLF files, the
// carriage return, so LF and CRLF files with the same content index to
// identical lengths.
type LineIndex struct {
	offsets []int64 // byte offset of each line start, strictly increasing
	lengths []int   // trimmed byte length of each line
	file    *llio.MappedFile
}

// BuildLineIndex scans the file once and builds the line tables.
// An empty file indexes as a single empty line so the invariant
// LineCount() >= 1 holds for every input.
func BuildLineIndex(file *llio.MappedFile) (*LineIndex, error) {
	size := file.Size()
	if size == 0 {
		return &LineIndex{
			offsets: []int64{0},
			lengths: []int{0},
			file:    file,
		}, nil
	}

	// Estimate initial capacity (assume ~100 bytes per line)
	estimatedLines := int(size/100) + 1
	offsets := make([]int64, 0, estimatedLines)
	lengths := make([]int, 0, estimatedLines)
	offsets = append(offsets, 0) // First line starts at 0

	// Read in chunks to find newlines
	const chunkSize = 64 * 1024 // 64KB chunks
	buf := make([]byte, chunkSize)

	var pos int64
	var carry byte // last byte of the previous chunk, for CRLF at a chunk seam
	for pos < size {
		readSize := chunkSize
		if pos+int64(readSize) > size {
			readSize = int(size - pos)
		}

		n, err := file.ReadAt(buf[:readSize], pos)
		if err != nil {
			return nil, err
		}

		chunk := buf[:n]
		offset := 0
		for {
			idx := bytes.IndexByte(chunk[offset:], '\n')
			if idx == -1 {
				break
			}

			nlPos := pos + int64(offset) + int64(idx)
			length := int(nlPos - offsets[len(offsets)-1])
			before := carry
			if offset+idx > 0 {
				before = chunk[offset+idx-1]
			}
			if length > 0 && before == '\r' {
				length-- // Adjust for CRLF
			}
			lengths = append(lengths, length)

			if nlPos+1 < size {
				offsets = append(offsets, nlPos+1)
			}
			offset += idx + 1
		}

		carry = chunk[n-1]
		pos += int64(n)
	}

	// A trailing segment without a terminator still counts as a line.
	if len(lengths) < len(offsets) {
		lengths = append(lengths, int(size-offsets[len(offsets)-1]))
	}

	return &LineIndex{
		offsets: offsets,
		lengths: lengths,
		file:    file,
	}, nil
}

// LineCount returns the total number of logical lines, always >= 1.
func (idx *LineIndex) LineCount() int {
	return len(idx.offsets)
}

// LineText returns the content of the line at the given index (0-based).
// It reports false when the index is out of range or when the bytes are not
// valid UTF-8; callers treat such lines as unreadable and skip them rather
// than failing.
func (idx *LineIndex) LineText(lineNum int) (string, bool) {
	if lineNum < 0 || lineNum >= len(idx.offsets) {
		return "", false
	}

	start := idx.offsets[lineNum]
	var end int64
	if lineNum+1 < len(idx.offsets) {
		end = idx.offsets[lineNum+1]
	} else {
		end = idx.file.Size()
	}

	content, err := idx.file.ReadRange(start, end)
	if err != nil {
		return "", false
	}

	content = bytes.TrimRight(content, "\r\n")
	if !utf8.Valid(content) {
		return "", false
	}
	return string(content), true
}

// LineByteLength returns the trimmed byte length of a line, used for
// wrap-row math. It is defined even for lines whose text does not decode.
func (idx *LineIndex) LineByteLength(lineNum int) int {
	if lineNum < 0 || lineNum >= len(idx.lengths) {
		return 0
	}
	return idx.lengths[lineNum]
}
