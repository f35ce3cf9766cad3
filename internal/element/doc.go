// Package element implements the control-channel descriptor: the mutable,
// user-edited record of one physical signal path (frequencies, port wiring,
// mixer calibration and the operations it can play).
//
// Descriptors are plain data. They accept values as given and leave all
// hardware validation to the compiler, which reads them through
// Element.Parameters.
package element
