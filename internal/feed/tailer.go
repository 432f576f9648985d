package feed

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// lineTailer reads complete lines appended to a file since the previous
// read. The offset only ever advances past lines terminated by a newline;
// a partial trailing line stays unconsumed until its newline arrives.
type lineTailer struct {
	path   string
	offset int64
}

func newLineTailer(path string) *lineTailer {
	return &lineTailer{path: path}
}

// drain returns the newly appended complete lines. A missing file is not
// an error (nothing to drain yet); a file smaller than the current offset
// was truncated or replaced, and the tailer restarts from the beginning.
func (t *lineTailer) drain() ([]string, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			t.offset = 0
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", t.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", t.path, err)
	}
	if info.Size() < t.offset {
		t.offset = 0
	}
	if info.Size() == t.offset {
		return nil, nil
	}

	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", t.path, err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.path, err)
	}

	var lines []string
	rest := data
	for {
		nl := bytes.IndexByte(rest, '\n')
		if nl < 0 {
			break
		}
		line := rest[:nl]
		// Tolerate CRLF from external writers.
		line = bytes.TrimSuffix(line, []byte("\r"))
		if len(line) > 0 {
			lines = append(lines, string(line))
		}
		t.offset += int64(nl + 1)
		rest = rest[nl+1:]
	}
	return lines, nil
}
