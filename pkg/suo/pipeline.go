package suo

import "context"

// Builder accumulates the (up to) seven named stages of a run and wires
// their callbacks in dependency order. It is a distinct type from
// Pipeline so that an unwired, partially-configured chain is simply not a
// Pipeline and cannot be run (spec.md §9: "the fully-wired pipeline is a
// distinct type from a partially-wired builder").
type Builder struct {
	Receiver    Receiver
	Decoder     Decoder
	RxOutput    RxOutput
	Transmitter Transmitter
	Encoder     Encoder
	TxInput     TxInput
	SignalIO    SignalIO
}

// Build validates the wiring invariants from spec.md §3 and §4.11 and, if
// they hold, connects every stage's callbacks and returns a ready-to-run
// Pipeline:
//
//	rx_output  <- decoder
//	receiver   <- rx_output
//	tx_input   <- encoder
//	transmitter<- tx_input
//	signal_io  <- receiver & transmitter
//
// The receive chain (Receiver/Decoder/RxOutput) and the transmit chain
// (Transmitter/Encoder/TxInput) are each all-or-nothing: a pipeline may be
// receive-only, transmit-only, or both, but not partially wired within one
// chain. SignalIO is always required since it owns the main loop.
func (b *Builder) Build() (*Pipeline, error) {
	if b.SignalIO == nil {
		return nil, &ConfigError{Stage: "signal_io", Reason: "no signal_io stage configured"}
	}

	haveRx := b.Receiver != nil
	haveRxChain := b.Decoder != nil || b.RxOutput != nil
	if haveRx != haveRxChain || (haveRx && (b.Decoder == nil || b.RxOutput == nil)) {
		return nil, &ConfigError{Stage: "receiver", Reason: "receiver, decoder and rx_output must all be set or all be absent"}
	}

	haveTx := b.Transmitter != nil
	haveTxChain := b.Encoder != nil || b.TxInput != nil
	if haveTx != haveTxChain || (haveTx && (b.Encoder == nil || b.TxInput == nil)) {
		return nil, &ConfigError{Stage: "transmitter", Reason: "transmitter, encoder and tx_input must all be set or all be absent"}
	}

	if haveRx {
		if err := b.RxOutput.SetDecoder(b.Decoder); err != nil {
			return nil, &ConfigError{Stage: "rx_output", Reason: err.Error()}
		}
		if err := b.Receiver.SetRxOutput(b.RxOutput); err != nil {
			return nil, &ConfigError{Stage: "receiver", Reason: err.Error()}
		}
	}

	if haveTx {
		if err := b.TxInput.SetEncoder(b.Encoder); err != nil {
			return nil, &ConfigError{Stage: "tx_input", Reason: err.Error()}
		}
		if err := b.Transmitter.SetTxInput(b.TxInput); err != nil {
			return nil, &ConfigError{Stage: "transmitter", Reason: err.Error()}
		}
	}

	if err := b.SignalIO.SetChain(b.Receiver, b.Transmitter); err != nil {
		return nil, &ConfigError{Stage: "signal_io", Reason: err.Error()}
	}

	return &Pipeline{stages: *b}, nil
}

// Pipeline is the tuple of fully wired module instances for one run
// (spec.md §3). It can only be produced by Builder.Build, which enforces
// every invariant it names.
type Pipeline struct {
	stages Builder
}

// Run starts the signal-I/O main loop, which drives the receive and
// transmit chains until ctx is cancelled or an unrecoverable IOError
// occurs.
func (p *Pipeline) Run(ctx context.Context) error {
	return p.stages.SignalIO.Run(ctx)
}

// Close closes every wired stage, in roughly reverse wiring order. It
// collects and returns the first error encountered but still attempts to
// close every stage.
func (p *Pipeline) Close() error {
	var first error
	closeIfSet := func(m Module) {
		if m == nil {
			return
		}
		if err := m.Close(); err != nil && first == nil {
			first = err
		}
	}
	closeIfSet(p.stages.SignalIO)
	closeIfSet(p.stages.Transmitter)
	closeIfSet(p.stages.TxInput)
	closeIfSet(p.stages.Encoder)
	closeIfSet(p.stages.Receiver)
	closeIfSet(p.stages.RxOutput)
	closeIfSet(p.stages.Decoder)
	return first
}
