package coding

import (
	"strconv"

	"github.com/klauspost/reedsolomon"

	"github.com/kg7gio/suo/pkg/radio"
	"github.com/kg7gio/suo/pkg/suo"
)

// rsDataShards and rsParityShards give the classic CCSDS RS(255,223)
// block shape: 223 data bytes, 32 parity bytes per block.
const (
	rsDataShards   = 223
	rsParityShards = 32
	rsBlockSize    = rsDataShards + rsParityShards
)

// RSConfig configures a standalone RS(255,223) Decoder/Encoder pair. The
// shard counts are fixed (CCSDS standard); the only parameter is whether
// a short final block is zero-padded (default) or rejected.
type RSConfig struct {
	PadFinalBlock bool
}

func (c *RSConfig) Set(parameter, value string) error {
	switch parameter {
	case "pad_final_block":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return &suo.ConfigError{Stage: "rs", Parameter: parameter, Value: value, Reason: "expected bool"}
		}
		c.PadFinalBlock = v
		return nil
	default:
		return &suo.ConfigError{Stage: "rs", Parameter: parameter, Value: value, Reason: "unknown parameter"}
	}
}

func newRSCodec() (reedsolomon.Encoder, error) {
	return reedsolomon.New(rsDataShards, rsParityShards)
}

// RSEncoder encodes a byte payload into fixed-size RS(255,223) blocks: the
// standalone counterpart to the Golay framer's inner use of the same
// dependency (SPEC_FULL.md §4.12), usable on its own paired with e.g. the
// HDLC framer.
type RSEncoder struct {
	cfg RSConfig
	rs  reedsolomon.Encoder
}

func (e *RSEncoder) Name() string              { return "reed-solomon" }
func (e *RSEncoder) DefaultConfig() suo.Config { return &RSConfig{PadFinalBlock: true} }

func (e *RSEncoder) Configure(c suo.Config) error {
	cfg, ok := c.(*RSConfig)
	if !ok {
		return &suo.ConfigError{Stage: "rs-encoder", Reason: "wrong config type"}
	}
	rs, err := newRSCodec()
	if err != nil {
		return &suo.ConfigError{Stage: "rs-encoder", Reason: err.Error()}
	}
	e.cfg = *cfg
	e.rs = rs
	return nil
}

func (e *RSEncoder) Close() error { return nil }

// Encode splits in.Data into rsDataShards-byte blocks (the last zero-padded
// if cfg.PadFinalBlock, else rejected with a DecodeError), RS-encodes each,
// and concatenates the rsBlockSize-byte results into out.
func (e *RSEncoder) Encode(in *radio.Frame, out *radio.Frame, maxOutLen int) (int, error) {
	nBlocks := (len(in.Data) + rsDataShards - 1) / rsDataShards
	if len(in.Data)%rsDataShards != 0 && !e.cfg.PadFinalBlock {
		return 0, &suo.DecodeError{Stage: "rs-encoder", Reason: "input length is not a multiple of the data-shard size"}
	}
	if nBlocks == 0 {
		out.Data = out.Data[:0]
		return 0, nil
	}
	nOut := nBlocks * rsBlockSize
	if nOut > maxOutLen {
		return 0, &suo.BufferCapacityError{Stage: "rs-encoder", Needed: nOut, Available: maxOutLen}
	}
	if cap(out.Data) < nOut {
		out.Data = make([]byte, nOut)
	} else {
		out.Data = out.Data[:nOut]
	}

	shards := make([][]byte, rsDataShards+rsParityShards)
	for blk := 0; blk < nBlocks; blk++ {
		start := blk * rsDataShards
		end := start + rsDataShards
		block := make([]byte, rsDataShards)
		copy(block, sliceUpTo(in.Data, start, end))

		dst := out.Data[blk*rsBlockSize : (blk+1)*rsBlockSize]
		for i := 0; i < rsDataShards; i++ {
			shards[i] = dst[i : i+1 : i+1]
			shards[i][0] = block[i]
		}
		for i := 0; i < rsParityShards; i++ {
			shards[rsDataShards+i] = dst[rsDataShards+i : rsDataShards+i+1 : rsDataShards+i+1]
		}
		if err := e.rs.Encode(shards); err != nil {
			return 0, &suo.DecodeError{Stage: "rs-encoder", Reason: err.Error()}
		}
	}
	out.Timestamp = in.Timestamp
	out.Flags = in.Flags
	out.Metadata = in.Metadata
	return nOut, nil
}

func sliceUpTo(b []byte, start, end int) []byte {
	if start >= len(b) {
		return nil
	}
	if end > len(b) {
		end = len(b)
	}
	return b[start:end]
}

// RSDecoder recovers rsDataShards-byte payloads from rsBlockSize-byte
// RS(255,223) blocks of hard bytes. Each block's parity is checked: a
// block that passes yields its data bytes, and a block that fails is
// reported as a *suo.DecodeError. Byte errors are detected, not
// corrected. Input is taken as bytes; soft bits are not accepted.
type RSDecoder struct {
	cfg RSConfig
	rs  reedsolomon.Encoder
}

func (d *RSDecoder) Name() string              { return "reed-solomon" }
func (d *RSDecoder) DefaultConfig() suo.Config { return &RSConfig{PadFinalBlock: true} }

func (d *RSDecoder) Configure(c suo.Config) error {
	cfg, ok := c.(*RSConfig)
	if !ok {
		return &suo.ConfigError{Stage: "rs-decoder", Reason: "wrong config type"}
	}
	rs, err := newRSCodec()
	if err != nil {
		return &suo.ConfigError{Stage: "rs-decoder", Reason: err.Error()}
	}
	d.cfg = *cfg
	d.rs = rs
	return nil
}

func (d *RSDecoder) Close() error { return nil }

func (d *RSDecoder) Decode(in *radio.Frame, out *radio.Frame, maxOutBytes int) (int, error) {
	if len(in.Data)%rsBlockSize != 0 {
		return 0, &suo.DecodeError{Stage: "rs-decoder", Reason: "input length is not a multiple of the RS block size"}
	}
	nBlocks := len(in.Data) / rsBlockSize
	nOut := nBlocks * rsDataShards
	if nOut > maxOutBytes {
		return 0, &suo.BufferCapacityError{Stage: "rs-decoder", Needed: nOut, Available: maxOutBytes}
	}
	if cap(out.Data) < nOut {
		out.Data = make([]byte, nOut)
	} else {
		out.Data = out.Data[:nOut]
	}

	shards := make([][]byte, rsDataShards+rsParityShards)
	for blk := 0; blk < nBlocks; blk++ {
		block := in.Data[blk*rsBlockSize : (blk+1)*rsBlockSize]
		for i := range shards {
			shards[i] = block[i : i+1 : i+1]
		}
		ok, err := d.rs.Verify(shards)
		if err != nil {
			return 0, &suo.DecodeError{Stage: "rs-decoder", Reason: err.Error()}
		}
		if !ok {
			return 0, &suo.DecodeError{Stage: "rs-decoder", Reason: "uncorrectable block: parity check failed"}
		}
		dst := out.Data[blk*rsDataShards : (blk+1)*rsDataShards]
		for i := 0; i < rsDataShards; i++ {
			dst[i] = shards[i][0]
		}
	}
	out.Timestamp = in.Timestamp
	out.Flags = in.Flags
	out.Metadata = in.Metadata
	return nOut, nil
}
