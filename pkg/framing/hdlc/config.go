package hdlc

import (
	"strconv"

	"github.com/kg7gio/suo/pkg/suo"
)

// Mode selects whether the G3RUH scrambler is applied.
type Mode int

const (
	// AX25 bypasses the scrambler entirely.
	AX25 Mode = iota
	// G3RUH applies NRZ-I precoding plus the self-synchronising
	// scrambler to every stuffed bit.
	G3RUH
)

func (m Mode) String() string {
	if m == G3RUH {
		return "g3ruh"
	}
	return "ax25"
}

func parseMode(s string) (Mode, error) {
	switch s {
	case "ax25", "AX25":
		return AX25, nil
	case "g3ruh", "G3RUH":
		return G3RUH, nil
	default:
		return 0, &suo.ConfigError{Stage: "hdlc", Parameter: "mode", Value: s, Reason: "expected ax25 or g3ruh"}
	}
}

// Config is the HDLC framer/deframer configuration, grounded on
// original_source/libsuo/framing/hdlc_framer.cpp's Config (defaults:
// mode=G3RUH, preamble_length=4, trailer_length=4; append_crc and flag
// byte are this repo's own additions since the C++ struct left them as
// either uninitialized or compile-time constants).
type Config struct {
	Mode           Mode
	PreambleLength int
	TrailerLength  int
	AppendCRC      bool
}

// DefaultHDLCConfig returns the framer defaults used by the C++ original's
// Config constructor.
func DefaultHDLCConfig() *Config {
	return &Config{Mode: G3RUH, PreambleLength: 4, TrailerLength: 4, AppendCRC: true}
}

// Set implements suo.Config over the parameter names used in a
// configuration file section for this stage: mode, preamble_length,
// trailer_length, append_crc.
func (c *Config) Set(parameter, value string) error {
	switch parameter {
	case "mode":
		m, err := parseMode(value)
		if err != nil {
			return err
		}
		c.Mode = m
	case "preamble_length":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return &suo.ConfigError{Stage: "hdlc", Parameter: parameter, Value: value, Reason: "expected non-negative integer"}
		}
		c.PreambleLength = n
	case "trailer_length":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return &suo.ConfigError{Stage: "hdlc", Parameter: parameter, Value: value, Reason: "expected non-negative integer"}
		}
		c.TrailerLength = n
	case "append_crc":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return &suo.ConfigError{Stage: "hdlc", Parameter: parameter, Value: value, Reason: "expected bool"}
		}
		c.AppendCRC = v
	default:
		return &suo.ConfigError{Stage: "hdlc", Parameter: parameter, Value: value, Reason: "unknown parameter"}
	}
	return nil
}

const flagByte byte = 0x7E
