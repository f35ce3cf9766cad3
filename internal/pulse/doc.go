// Package pulse defines the boundary between the compiler and whatever
// produces pulse samples.
//
// Sample synthesis (Gaussian, DRAG, optimal-control shapes, ...) lives outside
// this module. A Provider only reports a pulse's length, its kind, its
// waveform samples and, for measurement pulses, its integration weights.
// Pulse is the plain data implementation used by the descriptor loader.
package pulse
