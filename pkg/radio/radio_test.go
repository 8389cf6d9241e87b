package radio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kg7gio/suo/pkg/radio"
)

func TestSoftBitHardThreshold(t *testing.T) {
	assert.Equal(t, radio.Bit(0), radio.SoftBit(0).Hard())
	assert.Equal(t, radio.Bit(0), radio.SoftBit(127).Hard())
	assert.Equal(t, radio.Bit(1), radio.SoftBit(128).Hard())
	assert.Equal(t, radio.Bit(1), radio.SoftBit(255).Hard())
}

func TestTimeOf(t *testing.T) {
	base := radio.Timestamp(1000)
	assert.Equal(t, base, radio.TimeOf(base, 0, 48000))
	// 48000 samples/sec -> one sample is ~20833ns.
	got := radio.TimeOf(base, 1, 48000)
	assert.InDelta(t, 20833, int64(got-base), 1)
}

func TestSymbolVectorAppendAndReset(t *testing.T) {
	v := radio.NewSymbolVector(3)
	assert.Equal(t, 3, v.Capacity())
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 3, v.Remaining())

	require.True(t, v.Append(1))
	require.True(t, v.Append(0))
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, 1, v.Remaining())
	assert.Equal(t, []radio.Bit{1, 0}, v.Bits())

	require.True(t, v.Append(1))
	assert.False(t, v.Append(1), "appending past capacity must fail")
	assert.Equal(t, 3, v.Len())

	v.Flags = radio.StartOfBurst | radio.EndOfBurst
	v.Reset()
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, radio.BurstFlags(0), v.Flags)
	assert.Equal(t, 3, v.Remaining())
}

func TestFrameCloneIsIndependent(t *testing.T) {
	f := radio.NewFrame([]byte{1, 2, 3}, 42)
	f.Flags = radio.NoLate
	f.Metadata.SetRSSI(-10)

	clone := f.Clone()
	clone.Data[0] = 99
	clone.Metadata.SetRSSI(5)

	assert.Equal(t, byte(1), f.Data[0], "mutating the clone must not affect the original")
	rssi, ok := f.Metadata.RSSI()
	require.True(t, ok)
	assert.Equal(t, float32(-10), rssi)
	assert.Equal(t, f.Timestamp, clone.Timestamp)
	assert.Equal(t, f.Flags, clone.Flags)
}

func TestFrameMarshalUnmarshalRoundTrip(t *testing.T) {
	f := &radio.Frame{
		Data:      []byte("hello frame"),
		Timestamp: 123456789,
		Flags:     radio.NoLate,
	}
	f.Metadata.SetCFO(1.5)
	f.Metadata.SetRSSI(-42.25)
	f.Metadata.SetSNR(12)
	f.Metadata.SetBER(0.001)
	f.Metadata.SetOER(0.0001)
	f.Metadata.SetMode(radio.Mode(7))

	b, err := f.MarshalBinary()
	require.NoError(t, err)

	var got radio.Frame
	require.NoError(t, got.UnmarshalBinary(b))

	assert.Equal(t, f.Data, got.Data)
	assert.Equal(t, f.Timestamp, got.Timestamp)
	assert.Equal(t, f.Flags, got.Flags)

	cfo, ok := got.Metadata.CFO()
	require.True(t, ok)
	assert.Equal(t, float32(1.5), cfo)

	rssi, ok := got.Metadata.RSSI()
	require.True(t, ok)
	assert.Equal(t, float32(-42.25), rssi)

	mode, ok := got.Metadata.DemodMode()
	require.True(t, ok)
	assert.Equal(t, radio.Mode(7), mode)
}

func TestFrameUnmarshalRejectsShortMessages(t *testing.T) {
	var f radio.Frame
	err := f.UnmarshalBinary([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestMetadataUnsetFieldsReportNotOK(t *testing.T) {
	var m radio.Metadata
	_, ok := m.CFO()
	assert.False(t, ok)
	_, ok = m.SNR()
	assert.False(t, ok)
}

func TestMetadataMergeOnlyCopiesPresentFields(t *testing.T) {
	var dst radio.Metadata
	dst.SetRSSI(-5)

	var src radio.Metadata
	src.SetSNR(9)

	dst.Merge(src)

	rssi, ok := dst.RSSI()
	require.True(t, ok)
	assert.Equal(t, float32(-5), rssi, "merge must not clobber fields absent from src")

	snr, ok := dst.SNR()
	require.True(t, ok)
	assert.Equal(t, float32(9), snr)

	_, ok = dst.CFO()
	assert.False(t, ok)
}
