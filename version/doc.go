// Package version reports the apiwatch build.
//
// Values are stamped at link time and fall back to the module's VCS
// build settings:
//
//	go build -ldflags "-X github.com/kbukum/apiwatch/version.Version=1.2.0" ./cmd/apiwatch
package version
