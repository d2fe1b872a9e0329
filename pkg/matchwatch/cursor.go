package matchwatch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Cursor records how much of a log file has been consumed.
//
// Offset only grows, except when the file is found shorter than Offset:
// the file was truncated or replaced, so reading restarts at 0 and Resets
// is incremented.
type Cursor struct {
	Path   string `json:"path"`
	Offset int64  `json:"offset"`
	Resets int    `json:"resets"`
}

// CursorAtEnd returns a cursor positioned at the current end of path.
func CursorAtEnd(path string) (Cursor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Cursor{Path: path}, fmt.Errorf("stat log: %w", err)
	}
	return Cursor{Path: path, Offset: info.Size()}, nil
}

// ReadNew reads the bytes appended to c.Path since c.Offset and returns the
// advanced cursor along with the new text. Invalid UTF-8 is replaced with
// U+FFFD rather than failing. The file is opened and closed within the call,
// so external rotation never leaves a stale handle behind.
//
// On error the returned cursor equals c.
func ReadNew(c Cursor) (Cursor, string, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return c, "", fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return c, "", fmt.Errorf("seek log end: %w", err)
	}

	next := c
	if size < next.Offset {
		next.Offset = 0
		next.Resets++
	}
	if size == next.Offset {
		return next, "", nil
	}

	if _, err := f.Seek(next.Offset, io.SeekStart); err != nil {
		return c, "", fmt.Errorf("seek log: %w", err)
	}
	buf := make([]byte, size-next.Offset)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return c, "", fmt.Errorf("read log: %w", err)
	}
	// A short read means the file shrank mid-read; only what was read counts.
	next.Offset += int64(n)

	return next, strings.ToValidUTF8(string(buf[:n]), "\uFFFD"), nil
}
