package frameio

import "github.com/kg7gio/suo/pkg/radio"

// TestSource is an in-memory, channel-backed FrameSource: frames queued
// with Enqueue are handed out, one per Handler call, in FIFO order.
// Unlike a scheduled source it does not hold a frame back until its own
// timestamp arrives — test code controls timing by choosing when to
// Enqueue and by the deadline it drives the pipeline with.
type TestSource struct {
	frames chan *radio.Frame
}

// NewTestSource returns a TestSource whose internal queue holds up to
// capacity frames before Enqueue blocks.
func NewTestSource(capacity int) *TestSource {
	return &TestSource{frames: make(chan *radio.Frame, capacity)}
}

// Enqueue schedules f for transmission. It blocks if the queue is full.
func (s *TestSource) Enqueue(f *radio.Frame) {
	s.frames <- f
}

// Handler implements suo.FrameSourceFunc: the queue's head, or (nil,
// false) if nothing is pending.
func (s *TestSource) Handler(now radio.Timestamp) (*radio.Frame, bool) {
	select {
	case f := <-s.frames:
		return f, true
	default:
		return nil, false
	}
}

// PeriodicTestSource reproduces test_interface.c's test_input_get_frame:
// a fixed literal payload, handed out once per FrameInterval (rounded up
// to the next whole interval) but only while the deadline falls in the
// first quarter of a four-interval cycle (deadline % (4*FrameInterval) <
// FrameInterval), a scaled-down form of the C original's
// "timestamp % 400000000 < 100000000" gate. Deduplicated against the last interval actually
// handed out, since here Handler may be polled far more often within one
// gate window than the original's single-shot call per tx tick.
type PeriodicTestSource struct {
	Payload       []byte
	FrameInterval radio.Timestamp

	lastSent radio.Timestamp
	sentAny  bool
}

// Handler implements suo.FrameSourceFunc.
func (p *PeriodicTestSource) Handler(now radio.Timestamp) (*radio.Frame, bool) {
	if p.FrameInterval <= 0 {
		return nil, false
	}
	if now%(4*p.FrameInterval) >= p.FrameInterval {
		return nil, false
	}
	due := (now + p.FrameInterval) / p.FrameInterval * p.FrameInterval
	if p.sentAny && due == p.lastSent {
		return nil, false
	}
	p.lastSent = due
	p.sentAny = true
	return radio.NewFrame(append([]byte(nil), p.Payload...), due), true
}
