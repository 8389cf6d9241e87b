package frameio

import (
	"bufio"
	"encoding/hex"
	"io"
	"sync"

	"github.com/kg7gio/suo/pkg/radio"
	"github.com/kg7gio/suo/pkg/suo"
)

// FileSink implements suo.RxOutput, decoding each received frame and
// appending it to w as one hex-encoded line, the write-side counterpart
// of FileSource.
type FileSink struct {
	w       *bufio.Writer
	closer  io.Closer
	decoder suo.Decoder
	once    sync.Once
}

// NewFileSink wraps w. If w also implements io.Closer, Close closes it
// after flushing.
func NewFileSink(w io.Writer) *FileSink {
	s := &FileSink{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

func (s *FileSink) Name() string              { return "file_output" }
func (s *FileSink) DefaultConfig() suo.Config { return &Config{} }
func (s *FileSink) Configure(suo.Config) error { return nil }

func (s *FileSink) Close() error {
	var err error
	s.once.Do(func() {
		err = s.w.Flush()
		if s.closer != nil {
			if cerr := s.closer.Close(); err == nil {
				err = cerr
			}
		}
	})
	return err
}

func (s *FileSink) SetDecoder(d suo.Decoder) error {
	s.decoder = d
	return nil
}

// Frame decodes f and appends the result as a hex line, dropping it
// silently on a failed decode (spec.md §7's "logged and the frame
// dropped inline" — FileSink has no logger of its own).
func (s *FileSink) Frame(f *radio.Frame) error {
	if s.decoder == nil {
		return &suo.ConfigError{Stage: "file_output", Reason: "no decoder wired"}
	}
	out := &radio.Frame{}
	n, err := s.decoder.Decode(f, out, maxDecodedBytes)
	if err != nil {
		return nil
	}
	if _, err := s.w.WriteString(hex.EncodeToString(out.Data[:n])); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

func (s *FileSink) Tick(now radio.Timestamp) error { return nil }
