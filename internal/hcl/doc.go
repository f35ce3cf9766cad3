// Package hcl provides the HCL implementation of the config.Loader and
// config.OverrideParser interfaces. It is responsible for file discovery and
// parsing, HCL-to-model translation, and cty-to-Go data binding.
package hcl
