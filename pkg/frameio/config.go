// Package frameio provides reference FrameSource/FrameSink implementations
// that exercise a pipeline's tx_input/rx_output ports without a real
// external message bus (spec.md scopes the real frame bus out; SPEC_FULL.md
// §4.13 asks for runnable stand-ins), grounded on
// original_source/libsuo/frame-io/test_interface.c.
package frameio

import "github.com/kg7gio/suo/pkg/suo"

// Config is the (empty) configuration record shared by every stand-in in
// this package; none of them take configuration-file parameters.
type Config struct{}

// Set always fails: these stages take no parameters.
func (c *Config) Set(parameter, value string) error {
	return &suo.ConfigError{Stage: "frameio", Parameter: parameter, Value: value, Reason: "takes no parameters"}
}
