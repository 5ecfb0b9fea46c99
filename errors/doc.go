// Package errors provides the structured error type shared by apiwatch
// packages. Every error carries a machine-readable code and a human-readable
// message; the message of a configuration error is the exact rule text that
// a hook reports through its error field.
package errors
