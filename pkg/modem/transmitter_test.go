package modem_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kg7gio/suo/pkg/coding"
	"github.com/kg7gio/suo/pkg/framing/hdlc"
	"github.com/kg7gio/suo/pkg/modem"
	"github.com/kg7gio/suo/pkg/radio"
	"github.com/kg7gio/suo/pkg/suo"
)

type collectingRxOutput struct {
	frames []*radio.Frame
}

func (c *collectingRxOutput) Name() string                    { return "collect" }
func (c *collectingRxOutput) DefaultConfig() suo.Config        { return &coding.BasicConfig{} }
func (c *collectingRxOutput) Configure(suo.Config) error       { return nil }
func (c *collectingRxOutput) Close() error                     { return nil }
func (c *collectingRxOutput) SetDecoder(d suo.Decoder) error   { return nil }
func (c *collectingRxOutput) Tick(now radio.Timestamp) error   { return nil }
func (c *collectingRxOutput) Frame(f *radio.Frame) error {
	c.frames = append(c.frames, f)
	return nil
}

// TestSimpleTransmitterReceiverRoundTrip drives an hdlc.Framer through
// SimpleTransmitter, feeds the resulting samples straight into a
// SimpleReceiver wired to an hdlc.Deframer, and checks the original
// payload comes out the other end — the only way to exercise the NCO,
// symbol-clock accumulator and FM discriminator together.
func TestSimpleTransmitterReceiverRoundTrip(t *testing.T) {
	cfg := modem.DefaultConfig()
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0xFF}

	framer := hdlc.NewFramer()
	require.NoError(t, framer.Configure(hdlc.DefaultHDLCConfig()))
	encoder := &coding.BasicEncoder{}
	require.NoError(t, encoder.Configure(&coding.BasicConfig{}))
	require.NoError(t, framer.SetEncoder(encoder))

	sent := false
	require.NoError(t, framer.SourceFrame.Connect(func(now radio.Timestamp) (*radio.Frame, bool) {
		if sent {
			return nil, false
		}
		sent = true
		return radio.NewFrame(append([]byte(nil), payload...), now), true
	}))

	tx := modem.NewSimpleTransmitter()
	require.NoError(t, tx.Configure(cfg))
	require.NoError(t, tx.SetTxInput(framer))

	deframer := hdlc.NewDeframer(*hdlc.DefaultHDLCConfig())
	rx := modem.NewSimpleReceiver(deframer)
	require.NoError(t, rx.Configure(cfg))
	sink := &collectingRxOutput{}
	require.NoError(t, rx.SetRxOutput(sink))

	samples := make([]radio.Sample, 4096)
	var ts radio.Timestamp
	for i := 0; i < 10 && len(sink.frames) == 0; i++ {
		_, err := tx.Execute(samples, ts)
		require.NoError(t, err)
		require.NoError(t, rx.Execute(samples, ts))
		ts += radio.Timestamp(len(samples))
	}

	require.Len(t, sink.frames, 1)
	require.Equal(t, payload, sink.frames[0].Data)
}
