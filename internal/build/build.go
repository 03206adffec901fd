// Package build holds build-time information.
package build

// Version is the rig version string. It defaults to "dev" and is set via
// linker flags for release builds.
var Version = "dev"
