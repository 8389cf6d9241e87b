package hdlc

import "github.com/kg7gio/suo/pkg/radio"

// minFrameBytes is the smallest number of bytes collected between two
// flags that is worth finalizing. When CRC is enabled, finalize further
// requires the two trailer bytes, so a CRC-checked frame may carry an
// empty payload.
const minFrameBytes = 1

// Deframer reverses Framer: it consumes one channel bit at a time,
// descrambles it (in G3RUH mode), recognizes 0x7E flags as frame boundaries, strips stuffed zeros,
// and emits a complete byte frame whenever it closes one (spec.md §4.5).
// It is not itself a suo.Receiver — per the receive-side asymmetry
// documented in pkg/suo, deframing lives inside whatever Receiver owns
// the demodulator (see pkg/modem), which feeds it one hard bit per symbol
// via PushBit.
//
// Bit-stuffing guarantees real data never carries six consecutive 1 bits,
// so a run of six 1s unambiguously marks a flag. Two delays make that
// decision safe without ever needing to roll back more than one bit:
//   - up to five pending 1 bits are held uncommitted until it's known
//     whether a 6th one is coming (a flag) or not (real data, plus
//     either a stuffed zero to discard or a genuine data zero to commit);
//   - the single zero bit immediately preceding a ones-run is committed
//     optimistically as data, then un-committed if that run turns out to
//     be the six ones of a flag — a flag's own leading zero is otherwise
//     indistinguishable from a data zero at the moment it arrives.
type Deframer struct {
	cfg   Config
	descr *descrambler

	pendingOnes     int
	sawSixOnes      bool
	lastWasLoneZero bool

	curByte     byte
	curByteBits int
	frameBytes  []byte

	frameTimestamp radio.Timestamp
	haveFrameStart bool
}

// NewDeframer returns a Deframer configured to match a Framer using the
// same Config.
func NewDeframer(cfg Config) *Deframer {
	return &Deframer{cfg: cfg, descr: newDescrambler(cfg.Mode == G3RUH)}
}

// Reset clears all synchronization and accumulation state, as if no bits
// had ever been seen.
func (d *Deframer) Reset() {
	d.descr.reset()
	d.pendingOnes = 0
	d.sawSixOnes = false
	d.lastWasLoneZero = false
	d.curByte = 0
	d.curByteBits = 0
	d.frameBytes = nil
	d.haveFrameStart = false
}

func (d *Deframer) commitBit(bit uint8) {
	if !d.haveFrameStart {
		return
	}
	d.curByte <<= 1
	d.curByte |= bit
	d.curByteBits++
	if d.curByteBits == 8 {
		d.frameBytes = append(d.frameBytes, d.curByte)
		d.curByte = 0
		d.curByteBits = 0
	}
}

// uncommitLastBit removes the single most recently committed bit,
// reversing commitBit. Used when a bit optimistically committed as data
// turns out to have been a flag's leading zero.
func (d *Deframer) uncommitLastBit() {
	if !d.haveFrameStart {
		return
	}
	if d.curByteBits > 0 {
		d.curByte >>= 1
		d.curByteBits--
		return
	}
	if len(d.frameBytes) > 0 {
		last := d.frameBytes[len(d.frameBytes)-1]
		d.frameBytes = d.frameBytes[:len(d.frameBytes)-1]
		d.curByte = last >> 1
		d.curByteBits = 7
	}
}

func (d *Deframer) commitPendingOnes() {
	for i := 0; i < d.pendingOnes; i++ {
		d.commitBit(1)
	}
	d.pendingOnes = 0
}

// closeFrame is called whenever a flag (frame boundary) is recognized. It
// returns a finalized frame if one was in progress, byte-aligned, and
// passes its CRC, then resets the accumulator for the next frame.
func (d *Deframer) closeFrame(now radio.Timestamp) (*radio.Frame, bool) {
	var result *radio.Frame
	if d.haveFrameStart && d.curByteBits == 0 && len(d.frameBytes) >= minFrameBytes {
		result = d.finalize()
	}
	d.curByte = 0
	d.curByteBits = 0
	d.frameBytes = nil
	d.lastWasLoneZero = false
	d.frameTimestamp = now
	d.haveFrameStart = true
	return result, result != nil
}

func (d *Deframer) finalize() *radio.Frame {
	payload := d.frameBytes
	if d.cfg.AppendCRC {
		if len(payload) < 2 {
			return nil
		}
		body := payload[:len(payload)-2]
		got := crc16CCITT(body)
		want := uint16(payload[len(payload)-2])<<8 | uint16(payload[len(payload)-1])
		if got != want {
			return nil
		}
		payload = body
	}
	return radio.NewFrame(append([]byte{}, payload...), d.frameTimestamp)
}

// PushBit feeds one line-coded channel bit (as produced by a Receiver's
// slicer) into the deframer, which descrambles it before deframing. It returns a decoded frame
// whenever a closing flag completes one; a bad CRC silently drops the
// frame, matching spec.md §7's "non-fatal, frame is dropped" DecodeError
// handling (the caller never even sees the bad data, only the absence of
// a frame).
func (d *Deframer) PushBit(bit radio.Bit, now radio.Timestamp) (*radio.Frame, bool) {
	b := d.descr.descrambleBit(uint8(bit))

	if d.sawSixOnes {
		if b == 1 {
			// Seven or more ones in a row: abort/idle. Discard whatever
			// was in progress; keep absorbing ones until a 0 resumes.
			d.haveFrameStart = false
			d.frameBytes = nil
			d.curByte = 0
			d.curByteBits = 0
			return nil, false
		}
		d.sawSixOnes = false
		return d.closeFrame(now)
	}

	if b == 1 {
		d.pendingOnes++
		if d.pendingOnes == 6 {
			if d.lastWasLoneZero {
				d.uncommitLastBit()
			}
			d.pendingOnes = 0
			d.sawSixOnes = true
		}
		return nil, false
	}

	// b == 0
	if d.pendingOnes == 5 {
		// Stuffed zero: the five buffered ones were real data; this bit
		// is discarded.
		d.commitPendingOnes()
		d.lastWasLoneZero = false
		return nil, false
	}
	d.commitPendingOnes()
	d.commitBit(0)
	d.lastWasLoneZero = true
	return nil, false
}
