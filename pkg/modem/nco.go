package modem

import (
	"math"

	"github.com/kg7gio/suo/pkg/radio"
)

// nco is a numerically-controlled oscillator: a free-running phase
// accumulator stepped once per sample by a caller-supplied frequency
// (radians/sample) and read out as a unit-magnitude complex sample.
// Grounded on original_source/libsuo/simple_transmitter.c's use of
// liquid-dsp's nco_crcf, reimplemented with math.Sincos since liquid-dsp
// is a cgo dependency and no example repo in the pack carries a pure-Go
// NCO of its own.
type nco struct {
	phase float64
}

// step advances the oscillator by freq radians and returns the sample at
// the phase before stepping.
func (n *nco) step(freq float64) radio.Sample {
	sin, cos := math.Sincos(n.phase)
	n.phase += freq
	if n.phase > math.Pi {
		n.phase -= 2 * math.Pi
	} else if n.phase < -math.Pi {
		n.phase += 2 * math.Pi
	}
	return radio.Sample(complex(float32(cos), float32(sin)))
}
