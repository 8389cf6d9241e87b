package golay

import (
	"github.com/kg7gio/suo/pkg/radio"
	"github.com/kg7gio/suo/pkg/suo"
)

// preambleByte is the bit pattern repeated for the Golay framer's
// preamble. Distinct from HDLC's 0x7E flag since the Golay framer has no
// flag byte to double as preamble filler (Open Question, DESIGN.md).
const preambleByte = 0x55

const maxPayloadBytes = maxPayloadLen

type golayState int

const (
	gStateIdle golayState = iota
	gStatePreamble
	gStateSync
	gStateHeader
	gStatePayload
)

// Framer implements suo.TxInput for the Golay-headed frame format
// (spec.md §4.6 / SPEC_FULL.md §4.14): preamble, syncword, Golay-coded
// length+flags header, then a payload optionally randomized, RS-coded and
// convolutionally coded per the header's flags.
type Framer struct {
	cfg     Config
	encoder suo.Encoder

	SourceFrame suo.FrameSourcePort

	state golayState

	preambleBitsLeft int
	syncBitsLeft     int
	headerBytes      [3]byte
	headerBitIdx     int
	payload          []byte
	payloadBitIdx    int

	encodeBuf *radio.Frame
}

// NewFramer returns a Framer with default configuration.
func NewFramer() *Framer {
	return &Framer{cfg: *DefaultGolayConfig(), encodeBuf: &radio.Frame{}}
}

func (f *Framer) Name() string              { return "golay" }
func (f *Framer) DefaultConfig() suo.Config { return DefaultGolayConfig() }

func (f *Framer) Configure(c suo.Config) error {
	cfg, ok := c.(*Config)
	if !ok {
		return &suo.ConfigError{Stage: "golay-framer", Reason: "wrong config type"}
	}
	f.cfg = *cfg
	f.state = gStateIdle
	return nil
}

func (f *Framer) Close() error { return nil }

func (f *Framer) SetEncoder(e suo.Encoder) error {
	f.encoder = e
	return nil
}

func (f *Framer) Tick(now radio.Timestamp) error { return nil }

// SourceSymbols implements suo.TxInput, resuming mid-burst across calls.
func (f *Framer) SourceSymbols(out *radio.SymbolVector, deadline radio.Timestamp) error {
	if f.state == gStateIdle {
		if err := f.startNextFrame(deadline); err != nil {
			return err
		}
		if f.state == gStateIdle {
			return nil
		}
	}

	if f.state == gStatePreamble {
		first := true
		for f.preambleBitsLeft > 0 {
			if out.Remaining() == 0 {
				return nil
			}
			bitpos := f.preambleBitsLeft % 8
			if bitpos == 0 {
				bitpos = 8
			}
			bit := (preambleByte >> uint(bitpos-1)) & 1
			out.Append(radio.Bit(bit))
			if first {
				out.Flags |= radio.StartOfBurst
				first = false
			}
			f.preambleBitsLeft--
		}
		f.state = gStateSync
	}

	if f.state == gStateSync {
		for f.syncBitsLeft > 0 {
			if out.Remaining() == 0 {
				return nil
			}
			bit := (f.cfg.Syncword >> uint(f.syncBitsLeft-1)) & 1
			out.Append(radio.Bit(bit))
			f.syncBitsLeft--
		}
		f.state = gStateHeader
	}

	if f.state == gStateHeader {
		for f.headerBitIdx < 24 {
			if out.Remaining() == 0 {
				return nil
			}
			byteIdx := f.headerBitIdx / 8
			bitInByte := 7 - f.headerBitIdx%8
			bit := (f.headerBytes[byteIdx] >> uint(bitInByte)) & 1
			out.Append(radio.Bit(bit))
			f.headerBitIdx++
		}
		f.state = gStatePayload
	}

	if f.state == gStatePayload {
		total := len(f.payload) * 8
		for f.payloadBitIdx < total {
			if out.Remaining() == 0 {
				return nil
			}
			byteIdx := f.payloadBitIdx / 8
			bitInByte := 7 - f.payloadBitIdx%8
			bit := (f.payload[byteIdx] >> uint(bitInByte)) & 1
			out.Append(radio.Bit(bit))
			f.payloadBitIdx++
		}
		out.Flags |= radio.EndOfBurst
		f.state = gStateIdle
		f.payload = nil
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
		return &suo.ConfigError{Stage: "golay-framer", Reason: "no encoder wired"}
	}
	n, err := f.encoder.Encode(frame, f.encodeBuf, maxPayloadBytes)
	if err != nil {
		return err
	}
	raw := append([]byte(nil), f.encodeBuf.Data[:n]...)

	header, err := encodeHeader(len(raw), &f.cfg)
	if err != nil {
		return err
	}

	onAir, err := buildOnAirPayload(raw, &f.cfg)
	if err != nil {
		return &suo.ConfigError{Stage: "golay-framer", Reason: err.Error()}
	}

	f.headerBytes = header
	f.headerBitIdx = 0
	f.payload = onAir
	f.payloadBitIdx = 0
	f.preambleBitsLeft = 8 * f.cfg.PreambleLen
	f.syncBitsLeft = f.cfg.SyncwordLen
	f.state = gStatePreamble
	return nil
}

// buildOnAirPayload runs raw through the inner stages selected by cfg, in
// the fixed order randomize -> RS -> convolutional (SPEC_FULL.md §4.14).
func buildOnAirPayload(raw []byte, cfg *Config) ([]byte, error) {
	data := append([]byte(nil), raw...)
	if cfg.UseRandomizer {
		randomize(data)
	}
	if cfg.UseRS {
		encoded, err := rsEncodeBlocks(data)
		if err != nil {
			return nil, err
		}
		data = encoded
	}
	if cfg.UseViterbi {
		nBits := len(data) * 8
		out := make([]byte, (nBits*2+7)/8)
		ConvEncode(data, nBits, out)
		data = out
	}
	return data, nil
}

// onAirByteLen computes the on-air byte count for a payload of rawLen
// bytes given cfg's flags, the inverse accounting the deframer needs to
// know how many bits to collect before it can reverse buildOnAirPayload.
func onAirByteLen(rawLen int, useRS, useViterbi bool) int {
	n := rawLen
	if useRS {
		n = rsEncodedLen(n)
	}
	if useViterbi {
		n = (n*8*2 + 7) / 8
	}
	return n
}
