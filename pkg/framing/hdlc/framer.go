package hdlc

import (
	"github.com/kg7gio/suo/pkg/radio"
	"github.com/kg7gio/suo/pkg/suo"
)

// maxPayloadBytes bounds a single frame's encoded payload, matching the
// spirit of original_source/libsuo/simple_transmitter.c's FRAMELEN_MAX
// (there a bit count; here a byte count before bit expansion).
const maxPayloadBytes = 1024

type framerState int

const (
	stateIdle framerState = iota
	statePreamble
	stateData
	stateTrailer
)

// Framer implements suo.TxInput: it pulls a raw application frame from its
// SourceFrame port, runs it through the wired Encoder, frames the result
// per spec.md §4.4 (optional CRC, preamble, bit-stuffed data, trailer),
// and hands scrambled hard bits to whatever Transmitter calls
// SourceSymbols. State machine: Idle -> GeneratePreamble -> GenerateData
// -> GenerateTrailer -> Idle, grounded on
// original_source/libsuo/framing/hdlc_framer.cpp's HDLCFramer::sourceSymbols.
type Framer struct {
	cfg     Config
	encoder suo.Encoder

	// SourceFrame is connected by the assembler to pull the next
	// outgoing application frame (spec.md §4.10).
	SourceFrame suo.FrameSourcePort

	state framerState
	scr   *scrambler

	frameData []byte
	byteIdx   int
	bitIdx    int // 0..7, MSB-first within the current byte

	stuffingCounter int

	encodeBuf *radio.Frame
}

// NewFramer returns a Framer with default configuration. Configure must
// still be called (directly or via the assembler) before use.
func NewFramer() *Framer {
	f := &Framer{cfg: *DefaultHDLCConfig(), encodeBuf: &radio.Frame{}}
	f.scr = newScrambler(f.cfg.Mode == G3RUH)
	return f
}

func (f *Framer) Name() string              { return "hdlc" }
func (f *Framer) DefaultConfig() suo.Config { return DefaultHDLCConfig() }

func (f *Framer) Configure(c suo.Config) error {
	cfg, ok := c.(*Config)
	if !ok {
		return &suo.ConfigError{Stage: "hdlc-framer", Reason: "wrong config type"}
	}
	f.cfg = *cfg
	f.scr = newScrambler(f.cfg.Mode == G3RUH)
	f.state = stateIdle
	return nil
}

func (f *Framer) Close() error { return nil }

func (f *Framer) SetEncoder(e suo.Encoder) error {
	f.encoder = e
	return nil
}

func (f *Framer) Tick(now radio.Timestamp) error { return nil }

// SourceSymbols implements suo.TxInput. It emits as much of the current
// burst as fits in out, resuming mid-frame on the next call; preamble and
// trailer are each emitted atomically or not at all (spec.md §4.4: "fails
// with a buffer-too-small error" if the symbol buffer can't hold one).
func (f *Framer) SourceSymbols(out *radio.SymbolVector, deadline radio.Timestamp) error {
	if f.state == stateIdle {
		if err := f.startNextFrame(deadline); err != nil {
			return err
		}
		if f.state == stateIdle {
			return nil // nothing pending
		}
	}

	if f.state == statePreamble {
		need := 8 * f.cfg.PreambleLength
		if out.Remaining() < need {
			return &suo.BufferCapacityError{Stage: "hdlc-framer", Needed: need, Available: out.Remaining()}
		}
		first := true
		for i := 0; i < f.cfg.PreambleLength; i++ {
			for bitpos := 7; bitpos >= 0; bitpos-- {
				bit := (flagByte >> uint(bitpos)) & 1
				out.Append(radio.Bit(f.scr.scrambleBit(bit)))
				if first {
					out.Flags |= radio.StartOfBurst
					first = false
				}
			}
		}
		f.state = stateData
	}

	if f.state == stateData {
		for f.byteIdx < len(f.frameData) {
			if out.Remaining() == 0 {
				return nil
			}
			if f.stuffingCounter >= 5 {
				out.Append(radio.Bit(f.scr.scrambleBit(0)))
				f.stuffingCounter = 0
				continue
			}
			bit := (f.frameData[f.byteIdx] >> uint(7-f.bitIdx)) & 1
			if bit == 1 {
				f.stuffingCounter++
			} else {
				f.stuffingCounter = 0
			}
			out.Append(radio.Bit(f.scr.scrambleBit(bit)))
			f.bitIdx++
			if f.bitIdx == 8 {
				f.bitIdx = 0
				f.byteIdx++
			}
		}
		f.state = stateTrailer
	}

	if f.state == stateTrailer {
		need := 8 * f.cfg.TrailerLength
		if out.Remaining() < need {
			return &suo.BufferCapacityError{Stage: "hdlc-framer", Needed: need, Available: out.Remaining()}
		}
		for i := 0; i < f.cfg.TrailerLength; i++ {
			for bitpos := 7; bitpos >= 0; bitpos-- {
				bit := (flagByte >> uint(bitpos)) & 1
				out.Append(radio.Bit(f.scr.scrambleBit(bit)))
			}
		}
		out.Flags |= radio.EndOfBurst
		f.state = stateIdle
		f.frameData = nil
	}

	return nil
}

func (f *Framer) startNextFrame(deadline radio.Timestamp) error {
	handler, ok := f.SourceFrame.Handler()
	if !ok {
		return suo.ErrPortNotConnected
	}
	frame, ok := handler(deadline)
	if !ok || frame == nil {
		return nil
	}

	if f.encoder == nil {
		return &suo.ConfigError{Stage: "hdlc-framer", Reason: "no encoder wired"}
	}
	n, err := f.encoder.Encode(frame, f.encodeBuf, maxPayloadBytes)
	if err != nil {
		return err
	}

	payload := make([]byte, n, n+2)
	copy(payload, f.encodeBuf.Data[:n])

	if f.cfg.AppendCRC {
		crc := crc16CCITT(payload)
		// The C++ original writes (crc>>8)&0xff into both trailer
		// bytes (spec.md §9 open question); that's treated as a bug
		// here and fixed to emit the full big-endian CRC.
		payload = append(payload, byte(crc>>8), byte(crc&0xff))
	}

	f.frameData = payload
	f.byteIdx = 0
	f.bitIdx = 0
	f.stuffingCounter = 0
	f.scr.reset()
	f.state = statePreamble
	return nil
}
