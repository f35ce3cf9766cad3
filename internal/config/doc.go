// Package config defines the format-agnostic descriptor model: the
// controllers, elements and pulse templates read from configuration files,
// along with the Loader interface concrete formats implement.
//
// The model is turned into live element descriptors with Build. Concrete
// loaders, such as for HCL, live in separate packages.
package config
