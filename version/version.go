package version

// Version is set at build time via -ldflags for release builds.
var Version = "0.1.0-dev"
