package config

import (
	"fmt"

	"github.com/kg7gio/suo/pkg/suo"
)

// Assembler replaces the C original's process-wide, link-order-dependent
// registry arrays (suo_receivers[], the C++ Registry self-registration
// constructors) with explicit, per-run registration owned by the
// Assembler value itself (spec.md §9 redesign flag: "no process-wide
// state"). A caller (typically cmd/suo's main) registers every stage
// implementation it was built with, then Assemble picks among them by
// name.
type Assembler struct {
	receivers    map[string]func() suo.Receiver
	decoders     map[string]func() suo.Decoder
	rxOutputs    map[string]func() suo.RxOutput
	transmitters map[string]func() suo.Transmitter
	encoders     map[string]func() suo.Encoder
	txInputs     map[string]func() suo.TxInput
	signalIOs    map[string]func() suo.SignalIO
}

// NewAssembler returns an Assembler with no stages registered.
func NewAssembler() *Assembler {
	return &Assembler{
		receivers:    map[string]func() suo.Receiver{},
		decoders:     map[string]func() suo.Decoder{},
		rxOutputs:    map[string]func() suo.RxOutput{},
		transmitters: map[string]func() suo.Transmitter{},
		encoders:     map[string]func() suo.Encoder{},
		txInputs:     map[string]func() suo.TxInput{},
		signalIOs:    map[string]func() suo.SignalIO{},
	}
}

func (a *Assembler) RegisterReceiver(name string, f func() suo.Receiver)       { a.receivers[name] = f }
func (a *Assembler) RegisterDecoder(name string, f func() suo.Decoder)         { a.decoders[name] = f }
func (a *Assembler) RegisterRxOutput(name string, f func() suo.RxOutput)       { a.rxOutputs[name] = f }
func (a *Assembler) RegisterTransmitter(name string, f func() suo.Transmitter) { a.transmitters[name] = f }
func (a *Assembler) RegisterEncoder(name string, f func() suo.Encoder)         { a.encoders[name] = f }
func (a *Assembler) RegisterTxInput(name string, f func() suo.TxInput)        { a.txInputs[name] = f }
func (a *Assembler) RegisterSignalIO(name string, f func() suo.SignalIO)      { a.signalIOs[name] = f }

// StageNames picks, by registered name, which implementation fills each of
// the seven fixed roles (spec.md §6: "stage identities are currently fixed
// at assembly time" — fixed per *role*, but which named implementation
// plays a role is a per-run choice, unlike the C original's hardcoded
// simple_receiver_code/basic_decoder_code/... wiring). An empty name means
// that role is absent from this run (e.g. a receive-only pipeline leaves
// Transmitter/Encoder/TxInput empty).
type StageNames struct {
	Receiver    string
	Decoder     string
	RxOutput    string
	Transmitter string
	Encoder     string
	TxInput     string
	SignalIO    string
}

// Assemble reads one Section per non-empty name in names, in the fixed
// assembly order (receiver, decoder, rx_output, transmitter, encoder,
// tx_input, signal_io — original_source/suoapp/configure.c's
// read_configuration order), applies it to that stage's default Config,
// and returns a suo.Builder ready for Builder.Build. sections supply at
// most one Section per non-empty role name, in that same order; a stage
// left without a Section keeps its default Config.
func (a *Assembler) Assemble(names StageNames, sections []Section) (*suo.Builder, error) {
	b := &suo.Builder{}
	next := 0
	take := func() (Section, bool) {
		if next >= len(sections) {
			return Section{}, false
		}
		s := sections[next]
		next++
		return s, true
	}

	if names.Receiver != "" {
		factory, ok := a.receivers[names.Receiver]
		if !ok {
			return nil, unknownStage("receiver", names.Receiver)
		}
		stage := factory()
		if err := configureStage(stage, take); err != nil {
			return nil, err
		}
		b.Receiver = stage
	}
	if names.Decoder != "" {
		factory, ok := a.decoders[names.Decoder]
		if !ok {
			return nil, unknownStage("decoder", names.Decoder)
		}
		stage := factory()
		if err := configureStage(stage, take); err != nil {
			return nil, err
		}
		b.Decoder = stage
	}
	if names.RxOutput != "" {
		factory, ok := a.rxOutputs[names.RxOutput]
		if !ok {
			return nil, unknownStage("rx_output", names.RxOutput)
		}
		stage := factory()
		if err := configureStage(stage, take); err != nil {
			return nil, err
		}
		b.RxOutput = stage
	}
	if names.Transmitter != "" {
		factory, ok := a.transmitters[names.Transmitter]
		if !ok {
			return nil, unknownStage("transmitter", names.Transmitter)
		}
		stage := factory()
		if err := configureStage(stage, take); err != nil {
			return nil, err
		}
		b.Transmitter = stage
	}
	if names.Encoder != "" {
		factory, ok := a.encoders[names.Encoder]
		if !ok {
			return nil, unknownStage("encoder", names.Encoder)
		}
		stage := factory()
		if err := configureStage(stage, take); err != nil {
			return nil, err
		}
		b.Encoder = stage
	}
	if names.TxInput != "" {
		factory, ok := a.txInputs[names.TxInput]
		if !ok {
			return nil, unknownStage("tx_input", names.TxInput)
		}
		stage := factory()
		if err := configureStage(stage, take); err != nil {
			return nil, err
		}
		b.TxInput = stage
	}
	if names.SignalIO != "" {
		factory, ok := a.signalIOs[names.SignalIO]
		if !ok {
			return nil, unknownStage("signal_io", names.SignalIO)
		}
		stage := factory()
		if err := configureStage(stage, take); err != nil {
			return nil, err
		}
		b.SignalIO = stage
	}

	return b, nil
}

func configureStage(stage suo.Module, take func() (Section, bool)) error {
	cfg := stage.DefaultConfig()
	if sec, ok := take(); ok {
		if err := Apply(cfg, sec); err != nil {
			return err
		}
	}
	return stage.Configure(cfg)
}

func unknownStage(role, name string) error {
	return &suo.ConfigError{Stage: role, Reason: fmt.Sprintf("no stage implementation registered under name %q", name)}
}
