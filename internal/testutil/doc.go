// Package testutil contains internal helpers (builders, fakes) used across
// test suites. Not part of the public API.
package testutil
