package hdlc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kg7gio/suo/pkg/coding"
	"github.com/kg7gio/suo/pkg/framing/hdlc"
	"github.com/kg7gio/suo/pkg/radio"
)

func TestHDLCConfigSetValidation(t *testing.T) {
	cfg := hdlc.DefaultHDLCConfig()
	require.NoError(t, cfg.Set("mode", "ax25"))
	assert.Equal(t, hdlc.AX25, cfg.Mode)
	require.NoError(t, cfg.Set("mode", "g3ruh"))
	assert.Equal(t, hdlc.G3RUH, cfg.Mode)
	assert.Error(t, cfg.Set("mode", "bogus"))

	require.NoError(t, cfg.Set("preamble_length", "8"))
	assert.Equal(t, 8, cfg.PreambleLength)
	assert.Error(t, cfg.Set("preamble_length", "-1"))
	assert.Error(t, cfg.Set("preamble_length", "notanumber"))

	require.NoError(t, cfg.Set("trailer_length", "2"))
	assert.Equal(t, 2, cfg.TrailerLength)

	require.NoError(t, cfg.Set("append_crc", "false"))
	assert.False(t, cfg.AppendCRC)

	assert.Error(t, cfg.Set("unknown", "x"))
}

// oneShotSource hands out frame exactly once, then reports nothing pending,
// standing in for the external frame bus a tx_input pulls from.
type oneShotSource struct {
	frame *radio.Frame
	used  bool
}

func (s *oneShotSource) handler(now radio.Timestamp) (*radio.Frame, bool) {
	if s.used {
		return nil, false
	}
	s.used = true
	return s.frame, true
}

// runFramerToCompletion drives f.SourceSymbols until the burst it produced
// returns it to idle, collecting every emitted symbol. The buffer is sized
// generously so a single call always drains the whole burst for these small
// test frames.
func runFramerToCompletion(t *testing.T, f *hdlc.Framer, deadline radio.Timestamp) []radio.Bit {
	t.Helper()
	out := radio.NewSymbolVector(8192)
	require.NoError(t, f.SourceSymbols(out, deadline))
	return append([]radio.Bit(nil), out.Bits()...)
}

func testFramerDeframerRoundTrip(t *testing.T, mode hdlc.Mode, appendCRC bool, payload []byte) {
	t.Helper()

	cfg := hdlc.Config{Mode: mode, PreambleLength: 4, TrailerLength: 4, AppendCRC: appendCRC}

	framer := hdlc.NewFramer()
	require.NoError(t, framer.Configure(&cfg))
	enc := &coding.BasicEncoder{}
	require.NoError(t, enc.Configure(enc.DefaultConfig()))
	require.NoError(t, framer.SetEncoder(enc))

	src := &oneShotSource{frame: radio.NewFrame(payload, 100)}
	require.NoError(t, framer.SourceFrame.Connect(src.handler))

	bits := runFramerToCompletion(t, framer, 0)
	require.NotEmpty(t, bits)

	deframer := hdlc.NewDeframer(cfg)
	var got *radio.Frame
	for _, b := range bits {
		if f, ok := deframer.PushBit(b, 200); ok {
			got = f
		}
	}

	require.NotNil(t, got, "deframer must recover exactly one frame from the framer's bitstream")
	assert.Equal(t, payload, got.Data)
}

func TestFramerDeframerRoundTripG3RUHWithCRC(t *testing.T) {
	testFramerDeframerRoundTrip(t, hdlc.G3RUH, true, []byte("hello hdlc"))
}

func TestFramerDeframerRoundTripAX25WithoutCRC(t *testing.T) {
	testFramerDeframerRoundTrip(t, hdlc.AX25, false, []byte("hello hdlc"))
}

func TestFramerDeframerRoundTripWithStuffingHeavyPayload(t *testing.T) {
	// All-ones bytes force bit stuffing on every sixth bit throughout the
	// payload, exercising the stuffing/destuffing path heavily.
	payload := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	testFramerDeframerRoundTrip(t, hdlc.G3RUH, true, payload)
}

func TestFramerDeframerRoundTripEmptyPayload(t *testing.T) {
	testFramerDeframerRoundTrip(t, hdlc.G3RUH, true, []byte{})
}

func TestDeframerDropsFrameOnBadCRC(t *testing.T) {
	cfg := hdlc.Config{Mode: hdlc.AX25, PreambleLength: 2, TrailerLength: 2, AppendCRC: true}

	framer := hdlc.NewFramer()
	require.NoError(t, framer.Configure(&cfg))
	enc := &coding.BasicEncoder{}
	require.NoError(t, enc.Configure(enc.DefaultConfig()))
	require.NoError(t, framer.SetEncoder(enc))

	src := &oneShotSource{frame: radio.NewFrame([]byte("corrupt me"), 0)}
	require.NoError(t, framer.SourceFrame.Connect(src.handler))

	bits := runFramerToCompletion(t, framer, 0)
	require.NotEmpty(t, bits)

	// Flip one payload bit, after the preamble flags, to corrupt the CRC.
	bits[8*cfg.PreambleLength+3] ^= 1

	deframer := hdlc.NewDeframer(cfg)
	var got *radio.Frame
	for _, b := range bits {
		if f, ok := deframer.PushBit(b, 0); ok {
			got = f
		}
	}
	assert.Nil(t, got, "a corrupted CRC must cause the frame to be silently dropped")
}
