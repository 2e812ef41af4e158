// Package version provides centralized version information for the preflight tool.
// All versions follow semantic versioning (semver) conventions.

package version

// PreflightVersion holds the current preflight CLI version.
// Format: major.minor.patch[-prerelease][+build]
const PreflightVersion = "0.1.0-dev"

// MinimumRuntimeVersion is the lowest template runtime version the rendering
// toolchain accepts. Compared as a version triplet.
const MinimumRuntimeVersion = "3.11.0"
