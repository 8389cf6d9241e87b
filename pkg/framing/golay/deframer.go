package golay

import "github.com/kg7gio/suo/pkg/radio"

type deframerState int

const (
	dStateHunt deframerState = iota
	dStateHeader
	dStatePayload
)

// Deframer reverses Framer: hunts the bit stream for the configured
// syncword, collects and Golay-decodes the 24-bit header, then collects
// and reverses the on-air payload coding the header's flags describe.
// Like hdlc.Deframer it is not itself a suo.Receiver; a Receiver
// implementation feeds it one hard bit per symbol via PushBit.
type Deframer struct {
	cfg Config

	state      deframerState
	syncWindow uint64
	syncMask   uint64

	headerBytes  [3]byte
	headerBitIdx int

	payload       []byte
	payloadBitIdx int
	targetBits    int

	length        int
	useRS         bool
	useViterbi    bool
	useRandomizer bool

	frameTimestamp radio.Timestamp
}

// NewDeframer returns a Deframer configured to match a Framer using the
// same Config.
func NewDeframer(cfg Config) *Deframer {
	d := &Deframer{cfg: cfg}
	if cfg.SyncwordLen >= 64 {
		d.syncMask = ^uint64(0)
	} else {
		d.syncMask = (uint64(1) << uint(cfg.SyncwordLen)) - 1
	}
	return d
}

// Reset clears all synchronization and accumulation state.
func (d *Deframer) Reset() {
	d.state = dStateHunt
	d.syncWindow = 0
	d.headerBitIdx = 0
	d.payload = nil
	d.payloadBitIdx = 0
}

// PushBit feeds one received hard bit into the deframer. It returns a
// decoded frame once a full payload has been collected and its inner
// coding stages reversed.
func (d *Deframer) PushBit(bit radio.Bit, now radio.Timestamp) (*radio.Frame, bool) {
	switch d.state {
	case dStateHunt:
		d.syncWindow = (d.syncWindow<<1 | uint64(bit)) & d.syncMask
		if d.syncWindow == d.cfg.Syncword&d.syncMask {
			d.state = dStateHeader
			d.headerBitIdx = 0
			d.headerBytes = [3]byte{}
			d.frameTimestamp = now
		}
		return nil, false

	case dStateHeader:
		byteIdx := d.headerBitIdx / 8
		bitInByte := 7 - d.headerBitIdx%8
		if bit != 0 {
			d.headerBytes[byteIdx] |= 1 << uint(bitInByte)
		}
		d.headerBitIdx++
		if d.headerBitIdx < 24 {
			return nil, false
		}
		length, useRS, useViterbi, useRandomizer := decodeHeader(d.headerBytes)
		d.length, d.useRS, d.useViterbi, d.useRandomizer = length, useRS, useViterbi, useRandomizer
		d.targetBits = onAirByteLen(length, useRS, useViterbi) * 8
		d.payload = make([]byte, (d.targetBits+7)/8)
		d.payloadBitIdx = 0
		if d.targetBits == 0 {
			d.state = dStateHunt
			frame, ok := d.finalize()
			return frame, ok
		}
		d.state = dStatePayload
		return nil, false

	case dStatePayload:
		byteIdx := d.payloadBitIdx / 8
		bitInByte := 7 - d.payloadBitIdx%8
		if bit != 0 {
			d.payload[byteIdx] |= 1 << uint(bitInByte)
		}
		d.payloadBitIdx++
		if d.payloadBitIdx < d.targetBits {
			return nil, false
		}
		d.state = dStateHunt
		return d.finalize()
	}
	return nil, false
}

func (d *Deframer) finalize() (*radio.Frame, bool) {
	data := d.payload
	if d.useViterbi {
		nBits := len(data) * 8 / 2
		decoded := make([]byte, (nBits+7)/8)
		ConvDecode(data, nBits, decoded)
		data = decoded
	}
	if d.useRS {
		decoded, err := rsDecodeBlocks(data, d.length)
		if err != nil {
			return nil, false
		}
		data = decoded
	}
	if len(data) < d.length {
		return nil, false
	}
	data = data[:d.length]
	if d.useRandomizer {
		data = append([]byte(nil), data...)
		randomize(data)
	}
	return radio.NewFrame(append([]byte(nil), data...), d.frameTimestamp), true
}
