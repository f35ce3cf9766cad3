package validation

// Limits describes the numeric envelope of one controller model. Intervals
// documented as open exclude both ends.
type Limits struct {
	// Analog output port indices, inclusive.
	MinAO, MaxAO int
	// Analog input port indices, inclusive.
	MinAI, MaxAI int
	// DC offset voltage, open interval.
	VMin, VMax float64
	// Waveform samples, [SampleMin, SampleMax).
	SampleMin, SampleMax float64
	// Mixer correction entries, open interval.
	CMin, CMax float64
	// ClockQuantum is the hardware timing unit in ns. Pulse lengths and
	// time-of-flight values are multiples of it.
	ClockQuantum int
	// MinLengthQuanta is the shortest pulse, in clock quanta.
	MinLengthQuanta int
}

// DefaultLimits returns the bounds of a first generation controller.
func DefaultLimits() Limits {
	return Limits{
		MinAO:           1,
		MaxAO:           10,
		MinAI:           1,
		MaxAI:           2,
		VMin:            -0.5,
		VMax:            0.5,
		SampleMin:       -0.5,
		SampleMax:       0.5,
		CMin:            -2,
		CMax:            2,
		ClockQuantum:    4,
		MinLengthQuanta: 4,
	}
}

// MinLength is the shortest allowed pulse length in ns.
func (l Limits) MinLength() int {
	return l.ClockQuantum * l.MinLengthQuanta
}
