// Package version reports how the sgacorrect binary was built. It backs
// --version and the service version attached to telemetry.
//
// Version, commit and build time may be set with -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/sgacorrect/version.Version=1.0.0" ./cmd/sgacorrect
//
// Values left empty fall back to the VCS stamps embedded by the Go toolchain.
package version
