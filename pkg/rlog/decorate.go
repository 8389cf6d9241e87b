package rlog

import (
	"errors"

	"github.com/kg7gio/suo/pkg/radio"
	"github.com/kg7gio/suo/pkg/suo"
)

// DecodingLogger wraps a suo.Decoder, logging a Warn on every
// *suo.DecodeError before returning it unchanged, so the frame still gets
// dropped by whatever RxOutput owns the Decoder (§7's "logged and the
// frame dropped inline") without that RxOutput needing a logger of its
// own — this is where pkg/frameio's TestSink/FileSink deferred the
// logging half of the per-frame drop policy to.
type DecodingLogger struct {
	suo.Decoder
	log *Logger
}

// NewDecodingLogger wraps decoder, logging through log.
func NewDecodingLogger(decoder suo.Decoder, log *Logger) *DecodingLogger {
	return &DecodingLogger{Decoder: decoder, log: log}
}

func (d *DecodingLogger) Decode(in *radio.Frame, out *radio.Frame, maxOutBytes int) (int, error) {
	n, err := d.Decoder.Decode(in, out, maxOutBytes)
	var decodeErr *suo.DecodeError
	if errors.As(err, &decodeErr) {
		d.log.Warn("frame dropped", "reason", decodeErr.Reason, "time", d.log.FrameTime(in.Timestamp))
	}
	return n, err
}

// SourcingLogger wraps a suo.TxInput, logging a Warn on every
// *suo.DeadlineMiss or *suo.BufferCapacityError its SourceSymbols call
// returns before forwarding the error unchanged.
type SourcingLogger struct {
	suo.TxInput
	log *Logger
}

// NewSourcingLogger wraps txInput, logging through log.
func NewSourcingLogger(txInput suo.TxInput, log *Logger) *SourcingLogger {
	return &SourcingLogger{TxInput: txInput, log: log}
}

func (s *SourcingLogger) SourceSymbols(out *radio.SymbolVector, deadline radio.Timestamp) error {
	err := s.TxInput.SourceSymbols(out, deadline)

	var deadlineMiss *suo.DeadlineMiss
	var capacityErr *suo.BufferCapacityError
	switch {
	case errors.As(err, &deadlineMiss):
		s.log.Warn("frame dropped", "reason", "deadline miss", "time", s.log.FrameTime(deadline))
	case errors.As(err, &capacityErr):
		s.log.Warn("frame dropped", "reason", "buffer too small", "needed", capacityErr.Needed, "available", capacityErr.Available)
	}
	return err
}
