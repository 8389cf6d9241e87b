package suo

import "github.com/kg7gio/suo/pkg/radio"

// Port is a named emission point that a framer or deframer calls
// synchronously to reach the next or previous stage, without knowing its
// concrete type. It is the typed replacement for suo's
// Port<Frame&, Timestamp> template (spec.md §4.10, §9): a single handler,
// connected exactly once. Ports carry no internal queue; nothing is
// buffered between the call and the handler running.
type Port[F any] struct {
	handler   F
	connected bool
}

// Connect wires a handler into the port. It is an error to connect a
// second handler to a port that has already been connected.
func (p *Port[F]) Connect(handler F) error {
	if p.connected {
		return ErrPortAlreadyConnected
	}
	p.handler = handler
	p.connected = true
	return nil
}

// Connected reports whether a handler has been wired.
func (p *Port[F]) Connected() bool { return p.connected }

// Handler returns the connected handler, or the zero value and false if
// none has been connected yet.
func (p *Port[F]) Handler() (F, bool) { return p.handler, p.connected }

// FrameSourceFunc is pulled by a transmit-side framer (acting as a
// tx_input) when it needs the next frame to emit. now is the deadline: if
// a frame scheduled before now exists it should be returned now, since a
// later call may be too late (spec.md §4.7).
type FrameSourceFunc func(now radio.Timestamp) (*radio.Frame, bool)

// FrameSinkFunc is a handler for a fully recovered incoming frame. The
// deframers in this module do not call it: hdlc.Deframer and
// golay.Deframer return frames from PushBit.
type FrameSinkFunc func(f *radio.Frame) error

// FrameSourcePort is the port type framers use to pull outgoing frames.
type FrameSourcePort = Port[FrameSourceFunc]

// FrameSinkPort is the port type for emitting incoming frames through a
// FrameSinkFunc.
type FrameSinkPort = Port[FrameSinkFunc]
