package signalio

import (
	"context"
	"encoding/binary"
	"io"
	"math"

	"github.com/kg7gio/suo/pkg/radio"
	"github.com/kg7gio/suo/pkg/suo"
)

const bytesPerSample = 8 // interleaved float32 I, float32 Q, little-endian

// WAVSignalIO implements suo.SignalIO by treating an io.Reader/io.Writer
// pair as the "hardware": it reads a fixed-size buffer of interleaved
// float32 I/Q samples, hands it to the wired Receiver, asks the wired
// Transmitter for the next outgoing buffer, writes that out, and repeats
// until the reader is exhausted or ctx is cancelled. Grounded on the
// teacher's `fxrec`/`fxsend` idiom of a small utility looping
// read-process-write against a plain file standing in for a sound
// device, generalized from their per-byte FX.25 test loop to a
// per-sample-buffer one matching this core's Execute granularity.
type WAVSignalIO struct {
	cfg Config

	in  io.Reader
	out io.Writer

	receiver    suo.Receiver
	transmitter suo.Transmitter
}

// NewWAVSignalIO returns a WAVSignalIO reading samples from in and
// writing transmitted samples to out. Either may be nil to run
// receive-only or transmit-only.
func NewWAVSignalIO(in io.Reader, out io.Writer) *WAVSignalIO {
	return &WAVSignalIO{cfg: *DefaultConfig(), in: in, out: out}
}

func (s *WAVSignalIO) Name() string              { return "wav" }
func (s *WAVSignalIO) DefaultConfig() suo.Config { return DefaultConfig() }

func (s *WAVSignalIO) Configure(c suo.Config) error {
	cfg, ok := c.(*Config)
	if !ok {
		return &suo.ConfigError{Stage: "wav", Reason: "wrong config type"}
	}
	s.cfg = *cfg
	return nil
}

func (s *WAVSignalIO) Close() error { return nil }

func (s *WAVSignalIO) SetChain(receiver suo.Receiver, transmitter suo.Transmitter) error {
	s.receiver = receiver
	s.transmitter = transmitter
	return nil
}

// Run reads, processes and writes buffers of BufferLen samples until ctx
// is cancelled or the input is exhausted (a clean end of run, not an
// error), matching §4.9/§5's "stop flag read between buffers".
func (s *WAVSignalIO) Run(ctx context.Context) error {
	rxBuf := make([]radio.Sample, s.cfg.BufferLen)
	txBuf := make([]radio.Sample, s.cfg.BufferLen)
	raw := make([]byte, s.cfg.BufferLen*bytesPerSample)

	var timestamp radio.Timestamp
	step := radio.Timestamp(float64(s.cfg.BufferLen) / s.cfg.SampleRate * 1e9)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if s.in != nil && s.receiver != nil {
			n, err := io.ReadFull(s.in, raw)
			switch {
			case err == io.EOF || err == io.ErrUnexpectedEOF:
				return nil
			case err != nil:
				return &suo.IOError{Stage: "wav", Err: err}
			}
			decodeSamples(raw[:n], rxBuf)
			if err := s.receiver.Execute(rxBuf, timestamp); err != nil {
				return &suo.IOError{Stage: "wav", Err: err}
			}
		}

		if s.out != nil && s.transmitter != nil {
			for i := range txBuf {
				txBuf[i] = 0
			}
			if _, err := s.transmitter.Execute(txBuf, timestamp); err != nil {
				return &suo.IOError{Stage: "wav", Err: err}
			}
			encodeSamples(txBuf, raw)
			if _, err := s.out.Write(raw); err != nil {
				return &suo.IOError{Stage: "wav", Err: err}
			}
		}

		if s.in == nil || s.receiver == nil {
			if s.out == nil || s.transmitter == nil {
				return nil
			}
		}

		timestamp += step
	}
}

// decodeSamples unpacks len(b)/bytesPerSample interleaved little-endian
// float32 I/Q pairs from b into out.
func decodeSamples(b []byte, out []radio.Sample) {
	n := len(b) / bytesPerSample
	for i := 0; i < n; i++ {
		off := i * bytesPerSample
		re := math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(b[off+4 : off+8]))
		out[i] = radio.Sample(complex(re, im))
	}
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
}

// encodeSamples packs in as interleaved little-endian float32 I/Q pairs
// into b, which must be at least len(in)*bytesPerSample bytes.
func encodeSamples(in []radio.Sample, b []byte) {
	for i, s := range in {
		off := i * bytesPerSample
		binary.LittleEndian.PutUint32(b[off:off+4], math.Float32bits(real(s)))
		binary.LittleEndian.PutUint32(b[off+4:off+8], math.Float32bits(imag(s)))
	}
}
