package mp3tag

// Version returns the library's semver string, the Go analog of
// mp3tag_version.
func Version() string { return "1.0.0" }
