// Package buildinfo holds values stamped into the binary at build time.
package buildinfo

// PackageName is the name the binary answers to when invoked directly.
// Any other invocation name is treated as a tool alias.
var PackageName = "toolshim"

// Version is set at build time via -ldflags.
var Version = "dev"
