package frameio

import (
	"sync"

	"github.com/kg7gio/suo/pkg/radio"
	"github.com/kg7gio/suo/pkg/suo"
)

// maxDecodedBytes bounds a single decoded frame, matching
// test_output_frame's fixed `uint8_t decoded[0x200]` stack buffer.
const maxDecodedBytes = 0x200

// TestSink implements suo.RxOutput as a channel-backed collector,
// grounded on test_interface.c's test_output_frame: there it decodes and
// printfs every received frame unconditionally; here it decodes and
// pushes the result onto Frames for a test or the CLI's --harness mode to
// drain. A failed decode is dropped rather than propagated, matching
// spec.md §7's "per-frame errors are logged and the frame dropped
// inline" — TestSink has no logger of its own, callers that want that
// should wrap it.
type TestSink struct {
	Frames chan *radio.Frame

	decoder suo.Decoder
	once    sync.Once
}

// NewTestSink returns a TestSink whose Frames channel buffers up to
// capacity decoded frames.
func NewTestSink(capacity int) *TestSink {
	return &TestSink{Frames: make(chan *radio.Frame, capacity)}
}

func (s *TestSink) Name() string              { return "test_output" }
func (s *TestSink) DefaultConfig() suo.Config { return &Config{} }
func (s *TestSink) Configure(suo.Config) error { return nil }

func (s *TestSink) Close() error {
	s.once.Do(func() { close(s.Frames) })
	return nil
}

func (s *TestSink) SetDecoder(d suo.Decoder) error {
	s.decoder = d
	return nil
}

// Frame decodes f and, on success, pushes the decoded frame onto Frames,
// dropping it if nobody is draining the channel.
func (s *TestSink) Frame(f *radio.Frame) error {
	if s.decoder == nil {
		return &suo.ConfigError{Stage: "test_output", Reason: "no decoder wired"}
	}
	out := &radio.Frame{}
	n, err := s.decoder.Decode(f, out, maxDecodedBytes)
	if err != nil {
		return nil
	}
	out.Data = out.Data[:n]

	select {
	case s.Frames <- out:
	default:
	}
	return nil
}

func (s *TestSink) Tick(now radio.Timestamp) error { return nil }
