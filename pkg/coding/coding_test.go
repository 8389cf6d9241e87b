package coding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kg7gio/suo/pkg/coding"
	"github.com/kg7gio/suo/pkg/radio"
	"github.com/kg7gio/suo/pkg/suo"
)

func TestBasicConfigRejectsAnyParameter(t *testing.T) {
	cfg := &coding.BasicConfig{}
	assert.Error(t, cfg.Set("anything", "1"))
}

func softBitsFor(b byte) []byte {
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		if b&(1<<(7-uint(i))) != 0 {
			out[i] = 255
		} else {
			out[i] = 0
		}
	}
	return out
}

func TestBasicDecoderPacksSoftBitsIntoBytes(t *testing.T) {
	d := &coding.BasicDecoder{}
	require.NoError(t, d.Configure(d.DefaultConfig()))

	var soft []byte
	soft = append(soft, softBitsFor(0xA5)...)
	soft = append(soft, softBitsFor(0x3C)...)

	in := radio.NewFrame(soft, 10)
	out := &radio.Frame{}
	n, err := d.Decode(in, out, 16)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0xA5, 0x3C}, out.Data)
	assert.Equal(t, radio.Timestamp(10), out.Timestamp)
}

func TestBasicDecoderPadsPartialTrailingGroup(t *testing.T) {
	d := &coding.BasicDecoder{}
	require.NoError(t, d.Configure(d.DefaultConfig()))

	// Three soft bits: 1,0,1 -> should land in the high bits of one output
	// byte, zero-padded on the low end.
	in := radio.NewFrame([]byte{255, 0, 255}, 0)
	out := &radio.Frame{}
	n, err := d.Decode(in, out, 16)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte(0b10100000), out.Data[0])
}

func TestBasicDecoderReportsBufferCapacityError(t *testing.T) {
	d := &coding.BasicDecoder{}
	require.NoError(t, d.Configure(d.DefaultConfig()))

	in := radio.NewFrame(make([]byte, 16), 0)
	_, err := d.Decode(in, &radio.Frame{}, 1)
	assert.Error(t, err)
	var capErr *suo.BufferCapacityError
	assert.ErrorAs(t, err, &capErr)
}

func TestBasicEncoderCopiesPayloadUnchanged(t *testing.T) {
	e := &coding.BasicEncoder{}
	require.NoError(t, e.Configure(e.DefaultConfig()))

	in := radio.NewFrame([]byte("hello"), 5)
	in.Flags = radio.NoLate
	out := &radio.Frame{}
	n, err := e.Encode(in, out, 64)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte("hello"), out.Data)
	assert.Equal(t, radio.NoLate, out.Flags)
}

func TestBasicEncoderReportsBufferCapacityError(t *testing.T) {
	e := &coding.BasicEncoder{}
	require.NoError(t, e.Configure(e.DefaultConfig()))

	in := radio.NewFrame([]byte("too long"), 0)
	_, err := e.Encode(in, &radio.Frame{}, 1)
	assert.Error(t, err)
}

func TestRSConfigParsesPadFinalBlock(t *testing.T) {
	cfg := &coding.RSConfig{}
	require.NoError(t, cfg.Set("pad_final_block", "false"))
	assert.False(t, cfg.PadFinalBlock)

	assert.Error(t, cfg.Set("pad_final_block", "notabool"))
	assert.Error(t, cfg.Set("unknown", "x"))
}

func TestRSEncodeDecodeRoundTripWithoutErrors(t *testing.T) {
	enc := &coding.RSEncoder{}
	require.NoError(t, enc.Configure(enc.DefaultConfig()))
	dec := &coding.RSDecoder{}
	require.NoError(t, dec.Configure(dec.DefaultConfig()))

	payload := make([]byte, 223)
	for i := range payload {
		payload[i] = byte(i)
	}

	in := radio.NewFrame(payload, 0)
	encoded := &radio.Frame{}
	n, err := enc.Encode(in, encoded, 4096)
	require.NoError(t, err)
	assert.Equal(t, 255, n)

	decoded := &radio.Frame{}
	m, err := dec.Decode(encoded, decoded, 4096)
	require.NoError(t, err)
	assert.Equal(t, 223, m)
	assert.Equal(t, payload, decoded.Data)
}

func TestRSEncodeRejectsShortFinalBlockWhenPaddingDisabled(t *testing.T) {
	enc := &coding.RSEncoder{}
	cfg := &coding.RSConfig{PadFinalBlock: false}
	require.NoError(t, enc.Configure(cfg))

	in := radio.NewFrame(make([]byte, 10), 0)
	_, err := enc.Encode(in, &radio.Frame{}, 4096)
	assert.Error(t, err)
}

func TestRSDecodeRejectsNonBlockMultipleLength(t *testing.T) {
	dec := &coding.RSDecoder{}
	require.NoError(t, dec.Configure(dec.DefaultConfig()))

	in := radio.NewFrame(make([]byte, 10), 0)
	_, err := dec.Decode(in, &radio.Frame{}, 4096)
	assert.Error(t, err)
}

func TestRSDecodeAcceptsMultiBlockPayload(t *testing.T) {
	enc := &coding.RSEncoder{}
	require.NoError(t, enc.Configure(enc.DefaultConfig()))
	dec := &coding.RSDecoder{}
	require.NoError(t, dec.Configure(dec.DefaultConfig()))

	payload := make([]byte, 223*2+50) // two full blocks plus a padded partial block
	for i := range payload {
		payload[i] = byte(i * 7)
	}

	in := radio.NewFrame(payload, 0)
	encoded := &radio.Frame{}
	_, err := enc.Encode(in, encoded, 8192)
	require.NoError(t, err)
	assert.Equal(t, 0, len(encoded.Data)%255)

	decoded := &radio.Frame{}
	_, err = dec.Decode(encoded, decoded, 8192)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded.Data[:len(payload)])
}
