package suo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kg7gio/suo/pkg/radio"
	"github.com/kg7gio/suo/pkg/suo"
)

type stubModule struct{ closed int }

func (*stubModule) Name() string               { return "stub" }
func (*stubModule) DefaultConfig() suo.Config  { return nil }
func (*stubModule) Configure(suo.Config) error { return nil }
func (m *stubModule) Close() error             { m.closed++; return nil }

type stubDecoder struct{ stubModule }

func (stubDecoder) Decode(in, out *radio.Frame, maxOutBytes int) (int, error) {
	out.Data = in.Data
	return len(in.Data), nil
}

type stubEncoder struct{ stubModule }

func (stubEncoder) Encode(in, out *radio.Frame, maxOutLen int) (int, error) {
	out.Data = in.Data
	return len(in.Data), nil
}

type stubRxOutput struct {
	stubModule
	decoder suo.Decoder
}

func (r *stubRxOutput) SetDecoder(d suo.Decoder) error { r.decoder = d; return nil }
func (*stubRxOutput) Frame(*radio.Frame) error         { return nil }
func (*stubRxOutput) Tick(radio.Timestamp) error       { return nil }

type stubReceiver struct {
	stubModule
	out suo.RxOutput
}

func (r *stubReceiver) SetRxOutput(out suo.RxOutput) error { r.out = out; return nil }
func (*stubReceiver) Execute([]radio.Sample, radio.Timestamp) error {
	return nil
}

type stubTxInput struct {
	stubModule
	encoder suo.Encoder
}

func (t *stubTxInput) SetEncoder(e suo.Encoder) error { t.encoder = e; return nil }
func (*stubTxInput) SourceSymbols(*radio.SymbolVector, radio.Timestamp) error {
	return nil
}
func (*stubTxInput) Tick(radio.Timestamp) error { return nil }

type stubTransmitter struct {
	stubModule
	in suo.TxInput
}

func (t *stubTransmitter) SetTxInput(in suo.TxInput) error { t.in = in; return nil }
func (*stubTransmitter) Execute([]radio.Sample, radio.Timestamp) (suo.TxResult, error) {
	return suo.TxResult{}, nil
}

type stubSignalIO struct {
	stubModule
	receiver    suo.Receiver
	transmitter suo.Transmitter
	ran         bool
}

func (s *stubSignalIO) SetChain(r suo.Receiver, t suo.Transmitter) error {
	s.receiver = r
	s.transmitter = t
	return nil
}

func (s *stubSignalIO) Run(ctx context.Context) error {
	s.ran = true
	return nil
}

func TestBuilderRequiresSignalIO(t *testing.T) {
	b := &suo.Builder{}
	_, err := b.Build()
	assert.Error(t, err)
	var cfgErr *suo.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "signal_io", cfgErr.Stage)
}

func TestBuilderRejectsPartialReceiveChain(t *testing.T) {
	b := &suo.Builder{
		SignalIO: &stubSignalIO{},
		Receiver: &stubReceiver{},
		// Decoder and RxOutput deliberately left unset.
	}
	_, err := b.Build()
	assert.Error(t, err)
}

func TestBuilderRejectsPartialTransmitChain(t *testing.T) {
	b := &suo.Builder{
		SignalIO:    &stubSignalIO{},
		Transmitter: &stubTransmitter{},
		// Encoder and TxInput deliberately left unset.
	}
	_, err := b.Build()
	assert.Error(t, err)
}

func TestBuilderAllowsSignalIOOnly(t *testing.T) {
	b := &suo.Builder{SignalIO: &stubSignalIO{}}
	pipeline, err := b.Build()
	require.NoError(t, err)
	require.NotNil(t, pipeline)
}

func TestBuilderWiresFullReceiveAndTransmitChains(t *testing.T) {
	decoder := &stubDecoder{}
	rxOutput := &stubRxOutput{}
	receiver := &stubReceiver{}
	encoder := &stubEncoder{}
	txInput := &stubTxInput{}
	transmitter := &stubTransmitter{}
	sio := &stubSignalIO{}

	b := &suo.Builder{
		Receiver:    receiver,
		Decoder:     decoder,
		RxOutput:    rxOutput,
		Transmitter: transmitter,
		Encoder:     encoder,
		TxInput:     txInput,
		SignalIO:    sio,
	}

	pipeline, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, suo.Decoder(decoder), rxOutput.decoder)
	assert.Equal(t, suo.RxOutput(rxOutput), receiver.out)
	assert.Equal(t, suo.Encoder(encoder), txInput.encoder)
	assert.Equal(t, suo.TxInput(txInput), transmitter.in)
	assert.Equal(t, suo.Receiver(receiver), sio.receiver)
	assert.Equal(t, suo.Transmitter(transmitter), sio.transmitter)

	require.NoError(t, pipeline.Run(context.Background()))
	assert.True(t, sio.ran)

	require.NoError(t, pipeline.Close())
	assert.Equal(t, 1, sio.closed)
	assert.Equal(t, 1, transmitter.closed)
	assert.Equal(t, 1, txInput.closed)
	assert.Equal(t, 1, encoder.closed)
	assert.Equal(t, 1, receiver.closed)
	assert.Equal(t, 1, rxOutput.closed)
	assert.Equal(t, 1, decoder.closed)
}

func TestPortConnectOnceSemantics(t *testing.T) {
	var p suo.FrameSourcePort
	assert.False(t, p.Connected())

	handler := func(now radio.Timestamp) (*radio.Frame, bool) { return nil, false }
	require.NoError(t, p.Connect(handler))
	assert.True(t, p.Connected())

	err := p.Connect(handler)
	assert.ErrorIs(t, err, suo.ErrPortAlreadyConnected)
}

func TestPortHandlerReturnsZeroValueUnconnected(t *testing.T) {
	var p suo.FrameSinkPort
	h, ok := p.Handler()
	assert.False(t, ok)
	assert.Nil(t, h)
}

func TestConfigErrorFormatting(t *testing.T) {
	err := &suo.ConfigError{Stage: "hdlc", Reason: "bad wiring"}
	assert.Contains(t, err.Error(), "hdlc")
	assert.Contains(t, err.Error(), "bad wiring")

	withParam := &suo.ConfigError{Stage: "hdlc", Parameter: "fec", Value: "bogus", Reason: "unknown value"}
	assert.Contains(t, withParam.Error(), "fec")
	assert.Contains(t, withParam.Error(), "bogus")
}

func TestIOErrorUnwraps(t *testing.T) {
	inner := assert.AnError
	err := &suo.IOError{Stage: "wav", Err: inner}
	assert.ErrorIs(t, err, inner)
}
