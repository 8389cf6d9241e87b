package modem

import (
	"github.com/kg7gio/suo/pkg/radio"
	"github.com/kg7gio/suo/pkg/suo"
)

// symbolBufCapacity bounds how many bits SimpleTransmitter asks its
// TxInput for in one SourceSymbols call, matching
// original_source/libsuo/simple_transmitter.c's FRAMELEN_MAX (0x900 bits)
// literally.
const symbolBufCapacity = 0x900

// SimpleTransmitter implements suo.Transmitter as a 2-FSK modulator
// (spec.md §4.7): an NCO driven at freq0/freq1 depending on the current
// bit, with bit timing advanced by a 32-bit symbol-clock phase
// accumulator rather than a floating-point counter, so long-run symbol
// timing never drifts.
type SimpleTransmitter struct {
	cfg     Config
	txInput suo.TxInput

	osc          nco
	freq0, freq1 float64
	symrate      uint32
	symphase     uint32

	bits   *radio.SymbolVector
	bitIdx int
}

// NewSimpleTransmitter returns a SimpleTransmitter with default
// configuration. Configure and SetTxInput must be called before Execute.
func NewSimpleTransmitter() *SimpleTransmitter {
	t := &SimpleTransmitter{bits: radio.NewSymbolVector(symbolBufCapacity)}
	t.applyConfig(*DefaultConfig())
	return t
}

func (t *SimpleTransmitter) Name() string              { return "simple-transmitter" }
func (t *SimpleTransmitter) DefaultConfig() suo.Config { return DefaultConfig() }

func (t *SimpleTransmitter) Configure(c suo.Config) error {
	cfg, ok := c.(*Config)
	if !ok {
		return &suo.ConfigError{Stage: "simple-transmitter", Reason: "wrong config type"}
	}
	t.applyConfig(*cfg)
	return nil
}

func (t *SimpleTransmitter) applyConfig(cfg Config) {
	t.cfg = cfg
	t.symrate = cfg.symrate()
	t.freq0, t.freq1 = cfg.freqs()
	t.osc = nco{}
	t.symphase = 0
	t.bits.Reset()
	t.bitIdx = 0
}

func (t *SimpleTransmitter) Close() error { return nil }

func (t *SimpleTransmitter) SetTxInput(in suo.TxInput) error {
	t.txInput = in
	return nil
}

// Execute fills samples with modulated baseband and reports the half-open
// range that carried on-air energy (spec.md §4.7). It calls
// TxInput.SourceSymbols at most once, only when the bit buffer from a
// previous call has been fully consumed — satisfying the TxInput
// contract's "at most once per Execute" invariant regardless of whether
// the call starts idle or resumes mid-burst.
func (t *SimpleTransmitter) Execute(samples []radio.Sample, baseTimestamp radio.Timestamp) (suo.TxResult, error) {
	result := suo.TxResult{Len: len(samples), Begin: -1, End: -1}

	if t.txInput == nil {
		return result, &suo.ConfigError{Stage: "simple-transmitter", Reason: "no tx input wired"}
	}

	if t.bitIdx >= t.bits.Len() {
		t.bits.Reset()
		t.bitIdx = 0
		if err := t.txInput.SourceSymbols(t.bits, baseTimestamp); err != nil {
			return result, err
		}
	}

	for i := range samples {
		if t.bitIdx >= t.bits.Len() {
			samples[i] = 0
			continue
		}
		if result.Begin == -1 {
			result.Begin = i
		}

		bit := t.bits.Bits()[t.bitIdx]
		freq := t.freq0
		if bit != 0 {
			freq = t.freq1
		}
		samples[i] = t.osc.step(freq)
		result.End = i + 1

		prev := t.symphase
		t.symphase += t.symrate
		if t.symphase < prev {
			t.bitIdx++
		}
	}

	return result, nil
}
