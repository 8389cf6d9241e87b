// Package coding implements Decoder/Encoder pairs: the codec half of the
// stage contract that turns symbol/bit sequences into decoded bytes and
// back (spec.md §4.3, §4.8).
package coding

import (
	"github.com/kg7gio/suo/pkg/radio"
	"github.com/kg7gio/suo/pkg/suo"
)

// BasicConfig is the (empty) configuration record for Basic{Decoder,
// Encoder}: neither takes any parameters, matching the C
// basic_decoder_code/basic_encoder_code's init_conf returning an empty
// struct.
type BasicConfig struct{}

// Set always fails: Basic takes no parameters.
func (c *BasicConfig) Set(parameter, value string) error {
	return &suo.ConfigError{Stage: "basic", Parameter: parameter, Value: value, Reason: "basic codec takes no parameters"}
}

// BasicDecoder hard-slices one soft bit per input byte (radio.SoftBit,
// thresholded at 128) into packed bytes, MSB first. It is the minimal
// decoder original_source/suoapp/configure.c wires as basic_decoder_code.
type BasicDecoder struct {
	configured bool
}

func (d *BasicDecoder) Name() string              { return "basic" }
func (d *BasicDecoder) DefaultConfig() suo.Config { return &BasicConfig{} }
func (d *BasicDecoder) Configure(suo.Config) error {
	d.configured = true
	return nil
}
func (d *BasicDecoder) Close() error { return nil }

// Decode packs every 8 soft-bit input bytes into one hard output byte.
// A trailing partial group of fewer than 8 soft bits is packed
// zero-padded on the low end, matching the C original's behaviour of
// truncating to whole bytes with the remainder left at zero.
func (d *BasicDecoder) Decode(in *radio.Frame, out *radio.Frame, maxOutBytes int) (int, error) {
	nOut := (len(in.Data) + 7) / 8
	if nOut > maxOutBytes {
		return 0, &suo.BufferCapacityError{Stage: "basic-decoder", Needed: nOut, Available: maxOutBytes}
	}
	out.Data = out.Data[:0]
	if cap(out.Data) < nOut {
		out.Data = make([]byte, nOut)
	} else {
		out.Data = out.Data[:nOut]
	}
	for i := range out.Data {
		out.Data[i] = 0
	}
	for i, sb := range in.Data {
		if radio.SoftBit(sb).Hard() == 1 {
			out.Data[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	out.Timestamp = in.Timestamp
	out.Flags = in.Flags
	out.Metadata = in.Metadata
	return nOut, nil
}

// BasicEncoder copies its input payload unchanged: the identity encode
// original_source/suoapp/configure.c wires as basic_encoder_code. It
// exists so a tx_input framer (HDLC or Golay) always has something to
// call between the external frame source and its own byte-oriented
// framing, even when no outer coding is wanted.
type BasicEncoder struct {
	configured bool
}

func (e *BasicEncoder) Name() string              { return "basic" }
func (e *BasicEncoder) DefaultConfig() suo.Config { return &BasicConfig{} }
func (e *BasicEncoder) Configure(suo.Config) error {
	e.configured = true
	return nil
}
func (e *BasicEncoder) Close() error { return nil }

func (e *BasicEncoder) Encode(in *radio.Frame, out *radio.Frame, maxOutLen int) (int, error) {
	nOut := len(in.Data)
	if nOut > maxOutLen {
		return 0, &suo.BufferCapacityError{Stage: "basic-encoder", Needed: nOut, Available: maxOutLen}
	}
	if cap(out.Data) < nOut {
		out.Data = make([]byte, nOut)
	} else {
		out.Data = out.Data[:nOut]
	}
	copy(out.Data, in.Data)
	out.Timestamp = in.Timestamp
	out.Flags = in.Flags
	out.Metadata = in.Metadata
	return nOut, nil
}
