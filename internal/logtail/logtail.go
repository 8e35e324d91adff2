package logtail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// tailBlock is how much Read pulls from the end of the file per step.
var tailBlock int64 = 32 * 1024

// Read returns at most maxLines from the end of the file at path, reading
// backwards so only the tail is loaded. A non-positive maxLines returns every
// line. A missing file is not an error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	if maxLines <= 0 {
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return splitLines(data), nil
	}

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}

	// More than maxLines newlines means the oldest, possibly cut, line can be
	// dropped.
	end := info.Size()
	var buf []byte
	for end > 0 && bytes.Count(buf, []byte{'\n'}) <= maxLines {
		n := min(tailBlock, end)
		end -= n
		chunk := make([]byte, int(n), int(n)+len(buf))
		if _, err := file.ReadAt(chunk, end); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read log: %w", err)
		}
		buf = append(chunk, buf...)
	}

	lines := splitLines(buf)
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines, nil
}

func splitLines(data []byte) []string {
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
