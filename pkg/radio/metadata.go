package radio

// Mode is a demodulator mode tag, opaque to the core.
type Mode uint32

// MetadataKey enumerates the fixed set of measurements a Frame may carry.
// The C original represents this as an array of tagged key/value entries
// with a MAX_METADATA cap; here the cap is implicit since every key has a
// dedicated field and a presence bit.
type MetadataKey uint8

const (
	KeyCFO MetadataKey = iota
	KeyCFOD
	KeyRSSI
	KeySNR
	KeyBER
	KeyOER
	KeyMode
	numMetadataKeys
)

// Metadata is the fixed-capacity set of measurements attached to a Frame.
// Only fields explicitly Set are considered present; reading an unset
// field returns its zero value and ok=false.
type Metadata struct {
	present [numMetadataKeys]bool
	cfo     float32
	cfod    float32
	rssi    float32
	snr     float32
	ber     float32
	oer     float32
	mode    Mode
}

func (m *Metadata) has(k MetadataKey) bool { return m.present[k] }

// CFO returns the carrier frequency offset estimate in Hz.
func (m *Metadata) CFO() (float32, bool) { return m.cfo, m.has(KeyCFO) }

// SetCFO sets the carrier frequency offset estimate in Hz.
func (m *Metadata) SetCFO(v float32) { m.cfo = v; m.present[KeyCFO] = true }

// CFOD returns the CFO drift over the frame in Hz.
func (m *Metadata) CFOD() (float32, bool) { return m.cfod, m.has(KeyCFOD) }

// SetCFOD sets the CFO drift over the frame in Hz.
func (m *Metadata) SetCFOD(v float32) { m.cfod = v; m.present[KeyCFOD] = true }

// RSSI returns the received power estimate in dB.
func (m *Metadata) RSSI() (float32, bool) { return m.rssi, m.has(KeyRSSI) }

// SetRSSI sets the received power estimate in dB.
func (m *Metadata) SetRSSI(v float32) { m.rssi = v; m.present[KeyRSSI] = true }

// SNR returns the estimated SNR in dB.
func (m *Metadata) SNR() (float32, bool) { return m.snr, m.has(KeySNR) }

// SetSNR sets the estimated SNR in dB.
func (m *Metadata) SetSNR(v float32) { m.snr = v; m.present[KeySNR] = true }

// BER returns the estimated pre-decoder bit error rate as a fraction.
func (m *Metadata) BER() (float32, bool) { return m.ber, m.has(KeyBER) }

// SetBER sets the estimated pre-decoder bit error rate.
func (m *Metadata) SetBER(v float32) { m.ber = v; m.present[KeyBER] = true }

// OER returns the post-decode octet error rate as a fraction.
func (m *Metadata) OER() (float32, bool) { return m.oer, m.has(KeyOER) }

// SetOER sets the post-decode octet error rate.
func (m *Metadata) SetOER(v float32) { m.oer = v; m.present[KeyOER] = true }

// DemodMode returns the demodulator mode tag.
func (m *Metadata) DemodMode() (Mode, bool) { return m.mode, m.has(KeyMode) }

// SetMode sets the demodulator mode tag.
func (m *Metadata) SetMode(v Mode) { m.mode = v; m.present[KeyMode] = true }

// Merge copies every present field of other into m, overwriting m's value
// for that key. Used by Decoder implementations to enrich metadata
// forwarded from the Receiver (spec: "Metadata is forwarded; may be
// enriched with post-decode statistics").
func (m *Metadata) Merge(other Metadata) {
	for k := MetadataKey(0); k < numMetadataKeys; k++ {
		if !other.present[k] {
			continue
		}
		switch k {
		case KeyCFO:
			m.SetCFO(other.cfo)
		case KeyCFOD:
			m.SetCFOD(other.cfod)
		case KeyRSSI:
			m.SetRSSI(other.rssi)
		case KeySNR:
			m.SetSNR(other.snr)
		case KeyBER:
			m.SetBER(other.ber)
		case KeyOER:
			m.SetOER(other.oer)
		case KeyMode:
			m.SetMode(other.mode)
		}
	}
}
