package frameio

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/kg7gio/suo/pkg/radio"
)

// FileSource is a FrameSource backed by a newline-delimited, hex-encoded
// frame file: one frame's payload per line, blank lines and lines
// starting with '#' ignored. It loads the whole file up front, matching
// the bounded, scripted nature of an integration run (SPEC_FULL.md
// §4.13's "scripted integration runs without a real message bus").
type FileSource struct {
	frames [][]byte
	next   int
}

// NewFileSource parses r as a hex-frame file.
func NewFileSource(r io.Reader) (*FileSource, error) {
	s := &FileSource{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		data, err := hex.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("frameio: line %d: %w", lineNo, err)
		}
		s.frames = append(s.frames, data)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler implements suo.FrameSourceFunc, handing out frames in file
// order, one per call, until exhausted.
func (s *FileSource) Handler(now radio.Timestamp) (*radio.Frame, bool) {
	if s.next >= len(s.frames) {
		return nil, false
	}
	data := s.frames[s.next]
	s.next++
	return radio.NewFrame(append([]byte(nil), data...), now), true
}
