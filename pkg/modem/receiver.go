package modem

import (
	"math/cmplx"

	"github.com/kg7gio/suo/pkg/radio"
	"github.com/kg7gio/suo/pkg/suo"
)

// Deframer is the subset of hdlc.Deframer / golay.Deframer that
// SimpleReceiver drives: one hard bit per recovered symbol, as described
// in pkg/suo's Receiver doc ("deframing lives inside whatever Receiver
// implementation owns the demodulator").
type Deframer interface {
	PushBit(bit radio.Bit, now radio.Timestamp) (*radio.Frame, bool)
	Reset()
}

// SimpleReceiver implements suo.Receiver as the documented-contract
// counterpart to SimpleTransmitter (SPEC_FULL.md §4.13): a non-coherent
// FM-discriminator 2-FSK slicer sharing the same symbol-clock
// accumulator as the transmitter, standing in for a real DSP chain.
// Grounded on demod_9600.go's overall shape (differentiate, integrate
// across a symbol period, slice at the clock boundary) but deliberately
// without its AGC, PLL phase nudging or zero-crossing correction — timing
// and carrier recovery are out of scope (spec.md Non-goals), so the
// receiver trusts the same free-running accumulator the transmitter uses
// rather than correcting drift against the incoming signal.
type SimpleReceiver struct {
	cfg      Config
	rxOutput suo.RxOutput
	deframer Deframer

	symrate  uint32
	symphase uint32

	havePrev bool
	prev     radio.Sample
	angleSum float64
}

// NewSimpleReceiver returns a SimpleReceiver with default configuration,
// deframing recovered bits with deframer.
func NewSimpleReceiver(deframer Deframer) *SimpleReceiver {
	r := &SimpleReceiver{deframer: deframer}
	r.applyConfig(*DefaultConfig())
	return r
}

func (r *SimpleReceiver) Name() string              { return "simple-receiver" }
func (r *SimpleReceiver) DefaultConfig() suo.Config { return DefaultConfig() }

func (r *SimpleReceiver) Configure(c suo.Config) error {
	cfg, ok := c.(*Config)
	if !ok {
		return &suo.ConfigError{Stage: "simple-receiver", Reason: "wrong config type"}
	}
	r.applyConfig(*cfg)
	return nil
}

func (r *SimpleReceiver) applyConfig(cfg Config) {
	r.cfg = cfg
	r.symrate = cfg.symrate()
	r.symphase = 0
	r.havePrev = false
	r.angleSum = 0
	if r.deframer != nil {
		r.deframer.Reset()
	}
}

func (r *SimpleReceiver) Close() error { return nil }

func (r *SimpleReceiver) SetRxOutput(out suo.RxOutput) error {
	r.rxOutput = out
	return nil
}

// Execute discriminates each sample against its predecessor, integrates
// the instantaneous frequency over one symbol period, and slices the sum
// against zero at every symbol-clock wrap (the same overflow-detected
// 32-bit accumulator SimpleTransmitter uses to advance its bit pointer),
// feeding the resulting hard bit to the wired Deframer.
func (r *SimpleReceiver) Execute(samples []radio.Sample, baseTimestamp radio.Timestamp) error {
	if r.rxOutput == nil {
		return &suo.ConfigError{Stage: "simple-receiver", Reason: "no rx output wired"}
	}

	var now radio.Timestamp
	for i, s := range samples {
		now = radio.TimeOf(baseTimestamp, i, r.cfg.SampleRate)

		if r.havePrev {
			prod := complex128(s) * cmplx.Conj(complex128(r.prev))
			r.angleSum += cmplx.Phase(prod)
		}
		r.prev = s
		r.havePrev = true

		prevPhase := r.symphase
		r.symphase += r.symrate
		if r.symphase < prevPhase {
			bit := radio.Bit(0)
			if r.angleSum > 0 {
				bit = 1
			}
			r.angleSum = 0

			if frame, ok := r.deframer.PushBit(bit, now); ok {
				if err := r.rxOutput.Frame(frame); err != nil {
					return err
				}
			}
		}
	}

	if len(samples) > 0 {
		if err := r.rxOutput.Tick(now); err != nil {
			return err
		}
	}
	return nil
}
