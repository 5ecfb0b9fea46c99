// Package util holds the JSON-shape helpers shared by the hook and its
// transport: canonicalisation of arbitrary Go values, structural equality
// and response body decoding.
package util
