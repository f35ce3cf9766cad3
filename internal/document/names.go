package document

// Static entry names written on initialisation.
const (
	ZeroWaveform = "zero_wf"
	MarkerOn     = "ON"
)

// MixerName derives the mixer entry name of an element.
func MixerName(element string) string {
	return element + ".mixer"
}

// PulseName derives the pulse entry name of an element operation.
func PulseName(element, operation string) string {
	return element + "." + operation
}

// WaveformName derives the waveform entry name of one pulse waveform key
// (I, Q or single).
func WaveformName(pulse, key string) string {
	return pulse + ".wf." + key
}

// WeightName derives the integration weight entry name of a pulse weight.
func WeightName(pulse, key string) string {
	return pulse + ".iw." + key
}
