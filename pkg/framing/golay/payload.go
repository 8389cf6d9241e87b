package golay

import (
	"errors"

	"github.com/klauspost/reedsolomon"
)

// Payload coding parameters: the classic CCSDS RS(255,223) code, wired a
// second, standalone time here as one of the Golay framer's selectable
// inner stages (SPEC_FULL.md §4.14), independent of pkg/coding's
// standalone RSEncoder/RSDecoder pair.
const (
	rsDataShards   = 223
	rsParityShards = 32
	rsBlockSize    = rsDataShards + rsParityShards
)

func rsEncodedLen(n int) int {
	blocks := (n + rsDataShards - 1) / rsDataShards
	if blocks == 0 {
		blocks = 1
	}
	return blocks * rsBlockSize
}

// rsEncodeBlocks RS-encodes data as zero-padded rsDataShards-byte blocks,
// each expanded to rsBlockSize bytes.
func rsEncodeBlocks(data []byte) ([]byte, error) {
	rs, err := reedsolomon.New(rsDataShards, rsParityShards)
	if err != nil {
		return nil, err
	}
	nBlocks := (len(data) + rsDataShards - 1) / rsDataShards
	if nBlocks == 0 {
		nBlocks = 1
	}
	out := make([]byte, nBlocks*rsBlockSize)
	shards := make([][]byte, rsDataShards+rsParityShards)
	for blk := 0; blk < nBlocks; blk++ {
		start := blk * rsDataShards
		dst := out[blk*rsBlockSize : (blk+1)*rsBlockSize]
		for i := 0; i < rsDataShards; i++ {
			shards[i] = dst[i : i+1 : i+1]
			if start+i < len(data) {
				shards[i][0] = data[start+i]
			} else {
				shards[i][0] = 0
			}
		}
		for i := 0; i < rsParityShards; i++ {
			shards[rsDataShards+i] = dst[rsDataShards+i : rsDataShards+i+1 : rsDataShards+i+1]
		}
		if err := rs.Encode(shards); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// rsDecodeBlocks reverses rsEncodeBlocks, checking the parity of each
// rsBlockSize-byte block and trimming the result to origLen bytes. A
// block that fails the check is an error; byte errors are detected, not
// corrected.
func rsDecodeBlocks(data []byte, origLen int) ([]byte, error) {
	rs, err := reedsolomon.New(rsDataShards, rsParityShards)
	if err != nil {
		return nil, err
	}
	nBlocks := len(data) / rsBlockSize
	out := make([]byte, 0, nBlocks*rsDataShards)
	shards := make([][]byte, rsDataShards+rsParityShards)
	for blk := 0; blk < nBlocks; blk++ {
		block := data[blk*rsBlockSize : (blk+1)*rsBlockSize]
		for i := range shards {
			shards[i] = block[i : i+1 : i+1]
		}
		ok, err := rs.Verify(shards)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New("golay: RS block failed its parity check")
		}
		for i := 0; i < rsDataShards; i++ {
			out = append(out, shards[i][0])
		}
	}
	if origLen >= 0 && origLen <= len(out) {
		out = out[:origLen]
	}
	return out, nil
}
