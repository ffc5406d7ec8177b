// Package tag exposes a single build-tag driven switch for extra runtime
// assertions: release builds skip them, debug builds (built with -tags
// debug) pay for the extra checks.
package tag

// Debug is true when the binary was built with -tags debug. Packages use it
// to gate assertions that are too expensive, or too redundant, for release
// builds but catch real bugs in development and CI.
var Debug = debug
