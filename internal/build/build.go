package build

// Version of virgo. Set to tag in CI during release.
var Version = "0.0.0"

// Commit is a short git commit hash. Set in CI during release.
var Commit = "unknown"
