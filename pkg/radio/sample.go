// Package radio holds the data types shared by every stage of a suo
// pipeline: baseband samples, symbols, frames and their metadata.
package radio

// Sample is a single complex baseband I/Q value.
type Sample = complex64

// Timestamp is a point in time expressed in nanoseconds, as used for every
// frame and sample buffer in the pipeline. The epoch is whatever the
// SignalIO implementation chooses; the core only relies on it being
// monotonic within a run.
type Timestamp int64

// TimeOf returns the nominal on-air time of sample index i within a buffer
// that starts at base and runs at the given sample rate.
func TimeOf(base Timestamp, i int, sampleRateHz float64) Timestamp {
	return base + Timestamp(float64(i)/sampleRateHz*1e9)
}

// Bit is a hard bit, always 0 or 1.
type Bit uint8

// SoftBit is a soft-decision bit: 0 means "very likely 0", 255 means "very
// likely 1". The mapping to log-likelihood ratios is monotonic but
// otherwise unspecified by the core; the only interpretation applied here
// is Hard's threshold at 128.
type SoftBit uint8

// Hard collapses a soft bit to its most likely hard value.
func (s SoftBit) Hard() Bit {
	if s >= 128 {
		return 1
	}
	return 0
}
