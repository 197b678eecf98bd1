package ingest

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Source yields raw catalog lines. Implementations own the character set
// handling: lines handed to the ingestor are always UTF-8.
type Source interface {
	Name() string
	Lines(ctx context.Context) ([]string, error)
}

// FileSource reads a catalog file encoded as ISO-8859-1, the encoding the
// stock catalog exports use. Decoding through the charmap never fails, every
// byte sequence is valid Latin-1.
type FileSource struct {
	path string
}

func NewFileSource(path string) FileSource {
	return FileSource{path: path}
}

func (f FileSource) Name() string {
	return filepath.Base(f.path)
}

func (f FileSource) Lines(ctx context.Context) ([]string, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(charmap.ISO8859_1.NewDecoder().Reader(file))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return lines, nil
}

// LineSource serves an in-memory batch of lines, used for request bodies
// and tests.
type LineSource struct {
	name  string
	lines []string
}

func NewLineSource(name string, lines []string) LineSource {
	return LineSource{name: name, lines: lines}
}

func (l LineSource) Name() string {
	return l.name
}

func (l LineSource) Lines(ctx context.Context) ([]string, error) {
	return l.lines, nil
}

// SplitLines breaks a raw text payload into lines the way file sources do,
// tolerating both LF and CRLF endings.
func SplitLines(payload string) []string {
	if payload == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(payload, "\r\n", "\n"), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
