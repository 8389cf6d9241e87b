package suo

import (
	"context"

	"github.com/kg7gio/suo/pkg/radio"
)

// Config is the typed-configuration half of the stage contract
// (spec.md §4.1): instead of a generic init_conf()/set_conf(name, value)
// pair operating on an opaque pointer, every stage gets its own Go struct
// and a thin string-to-field adapter satisfying this interface, used only
// at the configuration-file boundary (pkg/config).
type Config interface {
	// Set parses value and assigns it to the field named by parameter.
	// Unknown parameters or unparsable values return a *ConfigError.
	// Applying the same (parameter, value) pair twice must leave the
	// configuration identical to applying it once.
	Set(parameter, value string) error
}

// Module is embedded by every role interface. It captures the part of the
// C "any_code" header (name, config-record lifecycle, teardown) that is
// common to all seven stage roles: set_conf(name, value) becomes
// DefaultConfig/Configure operating on a typed Config record instead of an
// opaque pointer.
type Module interface {
	// Name identifies the stage implementation, e.g. "hdlc" or "golay".
	Name() string
	// DefaultConfig returns a fresh, zero-value-populated-with-defaults
	// Config record for this stage. Callers mutate it (typically via
	// repeated Set calls driven by a parsed config file section) and pass
	// it to Configure.
	DefaultConfig() Config
	// Configure applies a (possibly partially defaulted) Config record.
	// It is called at most once, before the stage is wired into a
	// Builder. An invalid record is reported as a *ConfigError.
	Configure(Config) error
	// Close releases any resources held by the instance. Safe to call
	// once; a second call is a no-op.
	Close() error
}

// TxResult reports what a Transmitter produced for one call to Execute:
// the total number of samples, and the half-open [Begin, End) range of
// samples that carried on-air energy (spec.md §4.7).
type TxResult struct {
	Len   int
	Begin int
	End   int
}

// Decoder turns a soft-bit frame into decoded bytes (spec.md §4.3). Decode
// must be pure in the decoder's configuration: the same input frame always
// produces the same output. A negative-equivalent failure is reported as
// a *DecodeError; Decode returns (0, err) in that case, never a partial
// write beyond maxOutBytes.
type Decoder interface {
	Module
	Decode(in *radio.Frame, out *radio.Frame, maxOutBytes int) (int, error)
}

// Encoder turns a byte payload into an encoded symbol or bit sequence
// (spec.md §4.8), with the same purity requirement as Decoder.
type Encoder interface {
	Module
	Encode(in *radio.Frame, out *radio.Frame, maxOutLen int) (int, error)
}

// RxOutput is called by a Receiver when a frame has been deframed. It owns
// the Decoder callback (set via SetDecoder) and is responsible for
// forwarding the decoded result to whatever external FrameSink it was
// built with.
type RxOutput interface {
	Module
	SetDecoder(d Decoder) error
	// Frame is called synchronously by the owning Receiver once per
	// deframed frame.
	Frame(f *radio.Frame) error
	// Tick is called regularly with the time reception has progressed
	// to, even when no frame was produced, so that time-based bookkeeping
	// (e.g. watchdogs) can run.
	Tick(now radio.Timestamp) error
}

// Receiver consumes a contiguous sample buffer annotated with a base
// timestamp, demodulates, synchronizes and deframes it, and calls the
// wired RxOutput zero or more times per buffer (spec.md §4.2). Execute
// must be non-blocking and must not allocate on the hot path beyond a
// bounded working set; it persists its synchronization state across
// calls, which must be made with contiguous, monotonically-timestamped
// buffers.
type Receiver interface {
	Module
	SetRxOutput(out RxOutput) error
	Execute(samples []radio.Sample, baseTimestamp radio.Timestamp) error
}

// TxInput is asked by a Transmitter for the next symbols to transmit
// (spec.md §4.4, §4.7: "downstream calls sourceSymbols(output, now)"). It
// owns the Encoder callback and, in this redesign, the transmit-side
// framer (HDLC or Golay): the framer plays tx_input, producing an
// already-framed bit sequence ready for direct modulation, while
// Transmitter is purely the modulator. deadline is the base timestamp of
// the buffer being generated; a framer mid-burst ignores it, an idle one
// uses it to decide whether a pending frame's schedule has arrived.
//
// SourceSymbols is called at most once per Transmitter.Execute call and
// must never grow out beyond its existing capacity (spec.md §5); if a
// pending frame needs more room than out.Remaining() to emit an atomic
// unit (e.g. a full preamble), it returns a *BufferCapacityError.
type TxInput interface {
	Module
	SetEncoder(e Encoder) error
	SourceSymbols(out *radio.SymbolVector, deadline radio.Timestamp) error
	Tick(now radio.Timestamp) error
}

// Transmitter generates a buffer of baseband samples from bits pulled from
// its wired TxInput (spec.md §4.7). baseTimestamp is the nominal time of
// samples[0].
type Transmitter interface {
	Module
	SetTxInput(in TxInput) error
	Execute(samples []radio.Sample, baseTimestamp radio.Timestamp) (TxResult, error)
}

// SignalIO owns the main loop: pulling samples from hardware, driving the
// wired Receiver and Transmitter, and pushing samples back out (spec.md
// §4.9). It is the only scheduler in the pipeline; every stage runs inline
// on its goroutine. Run returns when ctx is cancelled or the underlying
// device reports an unrecoverable *IOError.
type SignalIO interface {
	Module
	SetChain(receiver Receiver, transmitter Transmitter) error
	Run(ctx context.Context) error
}
