package golay

import "github.com/kg7gio/suo/pkg/suo"

// maxPayloadLen is the largest payload length the 9-bit length field can
// carry.
const maxPayloadLen = 511

// encodeHeader packs length (9 bits) and cfg's inner-stage flags (3 bits)
// into a 12-bit header value, Golay(24,12)-encodes it, and returns the
// three big-endian on-air bytes (§6: "multi-byte header fields in the
// Golay framer are big-endian").
func encodeHeader(length int, cfg *Config) ([3]byte, error) {
	if length < 0 || length > maxPayloadLen {
		return [3]byte{}, &suo.ConfigError{Stage: "golay-header", Reason: "payload length exceeds 9-bit header field"}
	}
	value := uint32(length)<<3 | packFlags(cfg)
	code := Encode24(value)
	return [3]byte{byte(code >> 16), byte(code >> 8), byte(code)}, nil
}

// decodeHeader reverses encodeHeader, correcting up to 3 bit errors.
func decodeHeader(b [3]byte) (length int, useRS, useViterbi, useRandomizer bool) {
	code := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	value := Decode24(code)
	length = int(value >> 3)
	flags := value & 0x7
	useRS = flags&flagUseRS != 0
	useViterbi = flags&flagUseViterbi != 0
	useRandomizer = flags&flagUseRandomizer != 0
	return
}
