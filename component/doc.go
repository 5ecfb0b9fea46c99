// Package component defines lifecycle-managed units and a registry that
// starts them in registration order and stops them in reverse.
//
// A Component reports its health; components that also implement
// Describable contribute a line to the startup summary built by
// Registry.Summary.
package component
