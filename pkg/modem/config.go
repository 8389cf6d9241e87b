package modem

import (
	"math"
	"strconv"

	"github.com/kg7gio/suo/pkg/suo"
)

// Config is shared by SimpleTransmitter and SimpleReceiver, grounded on
// original_source/libsuo/simple_transmitter.c's Config (samplerate,
// symbolrate, centerfreq, modindex). SimpleReceiver only consumes
// SampleRate/SymbolRate: its non-coherent discriminator has no notion of
// a configured center frequency or modulation index, it just measures
// whatever deviation the channel actually carries.
type Config struct {
	SampleRate float64
	SymbolRate float64
	CenterFreq float64
	ModIndex   float64
}

// DefaultConfig returns 48 ksps / 9600 baud / zero IF / unit modulation
// index, the teacher's own demo defaults (cmd/gen_tone, demod_9600.go).
func DefaultConfig() *Config {
	return &Config{SampleRate: 48000, SymbolRate: 9600, CenterFreq: 0, ModIndex: 1.0}
}

// Set implements suo.Config over samplerate, symbolrate, centerfreq,
// modindex.
func (c *Config) Set(parameter, value string) error {
	switch parameter {
	case "samplerate":
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || n <= 0 {
			return &suo.ConfigError{Stage: "modem", Parameter: parameter, Value: value, Reason: "expected positive number"}
		}
		c.SampleRate = n
	case "symbolrate":
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || n <= 0 {
			return &suo.ConfigError{Stage: "modem", Parameter: parameter, Value: value, Reason: "expected positive number"}
		}
		c.SymbolRate = n
	case "centerfreq":
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &suo.ConfigError{Stage: "modem", Parameter: parameter, Value: value, Reason: "expected number"}
		}
		c.CenterFreq = n
	case "modindex":
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || n <= 0 {
			return &suo.ConfigError{Stage: "modem", Parameter: parameter, Value: value, Reason: "expected positive number"}
		}
		c.ModIndex = n
	default:
		return &suo.ConfigError{Stage: "modem", Parameter: parameter, Value: value, Reason: "unknown parameter"}
	}
	return nil
}

// symrate computes the 32-bit symbol-clock accumulator step for cfg
// (spec.md §4.7): 2^32 * symbolrate/samplerate.
func (c *Config) symrate() uint32 {
	return uint32(4294967296.0 * c.SymbolRate / c.SampleRate)
}

// freqs computes the NCO phase-per-sample for bit=0 and bit=1
// (spec.md §4.7).
func (c *Config) freqs() (freq0, freq1 float64) {
	deviation := math.Pi * c.ModIndex * c.SymbolRate / c.SampleRate
	center := 2 * math.Pi * c.CenterFreq / c.SampleRate
	return center - deviation, center + deviation
}
