// Package signalio provides a reference SignalIO implementation so the
// receive/transmit loop can be driven from, and captured to, disk without
// real SDR hardware (spec.md §4.9 scopes the device driver itself out;
// SPEC_FULL.md §4.13 asks for a runnable stand-in).
package signalio

import (
	"strconv"

	"github.com/kg7gio/suo/pkg/suo"
)

// Config is WAVSignalIO's configuration: the sample rate used to advance
// timestamps, and how many samples each read/execute/write cycle covers.
type Config struct {
	SampleRate float64
	BufferLen  int
}

// DefaultConfig returns 48 ksps with a 1024-sample buffer.
func DefaultConfig() *Config {
	return &Config{SampleRate: 48000, BufferLen: 1024}
}

// Set implements suo.Config over samplerate, buffer_len.
func (c *Config) Set(parameter, value string) error {
	switch parameter {
	case "samplerate":
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || n <= 0 {
			return &suo.ConfigError{Stage: "signalio", Parameter: parameter, Value: value, Reason: "expected positive number"}
		}
		c.SampleRate = n
	case "buffer_len":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return &suo.ConfigError{Stage: "signalio", Parameter: parameter, Value: value, Reason: "expected positive integer"}
		}
		c.BufferLen = n
	default:
		return &suo.ConfigError{Stage: "signalio", Parameter: parameter, Value: value, Reason: "unknown parameter"}
	}
	return nil
}
