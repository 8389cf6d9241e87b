package radio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Flags is a bit-set of frame-level flags.
type Flags uint32

// NoLate instructs the transmit side to drop the frame if its Timestamp is
// already in the past at enqueue time, instead of sending it late.
const NoLate Flags = 0x40000

// Frame is a variable-length payload plus timing and measurement metadata.
// Depending on which stage holds it, Data may be bytes, packed hard bits
// (one bit per byte), symbols or soft bits — interpretation is purely
// contextual, matching the C original's "uint8_t data[]" trailing array.
//
// A Frame is exclusively owned by whichever stage currently holds it.
// Handing a Frame to the next stage (via a Port call or a frame-delivery
// method) transfers ownership; the sender must not read or write it again.
// Nothing in the type system enforces this — same as the teacher's
// convention of passing struct values and slices by single-writer
// discipline — but every core stage follows it, and the assembler never
// hands the same *Frame to two ports.
type Frame struct {
	Data      []byte
	Timestamp Timestamp
	Flags     Flags
	Metadata  Metadata
}

// NewFrame returns a Frame with the given payload and timestamp and no
// flags or metadata set.
func NewFrame(data []byte, ts Timestamp) *Frame {
	return &Frame{Data: data, Timestamp: ts}
}

// Clone returns a deep copy of the frame, useful for tests and for the
// rare case of fanning a frame out to more than one sink.
func (f *Frame) Clone() *Frame {
	data := make([]byte, len(f.Data))
	copy(data, f.Data)
	return &Frame{Data: data, Timestamp: f.Timestamp, Flags: f.Flags, Metadata: f.Metadata}
}

// wireMetadataLen is the encoded size of the trailing metadata block:
// timestamp(i64) cfo(f32) rssi(f32) snr(f32) ber(f32) oer(f32) mode(u32) flags(u32)
const wireMetadataLen = 8 + 4 + 4 + 4 + 4 + 4 + 4 + 4

// MarshalBinary encodes the frame as the external frame-boundary message
// format from spec.md §6: payload bytes followed by a fixed trailing
// metadata block, all big-endian.
func (f *Frame) MarshalBinary() ([]byte, error) {
	out := make([]byte, len(f.Data)+wireMetadataLen)
	n := copy(out, f.Data)
	buf := out[n:]

	binary.BigEndian.PutUint64(buf[0:8], uint64(f.Timestamp))
	cfo, _ := f.Metadata.CFO()
	rssi, _ := f.Metadata.RSSI()
	snr, _ := f.Metadata.SNR()
	ber, _ := f.Metadata.BER()
	oer, _ := f.Metadata.OER()
	mode, _ := f.Metadata.DemodMode()
	putFloat32(buf[8:12], cfo)
	putFloat32(buf[12:16], rssi)
	putFloat32(buf[16:20], snr)
	putFloat32(buf[20:24], ber)
	putFloat32(buf[24:28], oer)
	binary.BigEndian.PutUint32(buf[28:32], uint32(mode))
	binary.BigEndian.PutUint32(buf[32:36], uint32(f.Flags))
	return out, nil
}

// UnmarshalBinary decodes a frame-boundary message produced by
// MarshalBinary. Every trailing field is treated as present.
func (f *Frame) UnmarshalBinary(b []byte) error {
	if len(b) < wireMetadataLen {
		return fmt.Errorf("radio: frame message too short: %d bytes, need at least %d", len(b), wireMetadataLen)
	}
	split := len(b) - wireMetadataLen
	f.Data = append([]byte(nil), b[:split]...)
	buf := b[split:]

	f.Timestamp = Timestamp(binary.BigEndian.Uint64(buf[0:8]))
	f.Metadata = Metadata{}
	f.Metadata.SetCFO(getFloat32(buf[8:12]))
	f.Metadata.SetRSSI(getFloat32(buf[12:16]))
	f.Metadata.SetSNR(getFloat32(buf[16:20]))
	f.Metadata.SetBER(getFloat32(buf[20:24]))
	f.Metadata.SetOER(getFloat32(buf[24:28]))
	f.Metadata.SetMode(Mode(binary.BigEndian.Uint32(buf[28:32])))
	f.Flags = Flags(binary.BigEndian.Uint32(buf[32:36]))
	return nil
}

func putFloat32(b []byte, v float32) {
	binary.BigEndian.PutUint32(b, math.Float32bits(v))
}

func getFloat32(b []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}
