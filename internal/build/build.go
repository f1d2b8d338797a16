// Package build holds build-time information for the kiln binary.
package build

import "fmt"

// Version is the released version of kiln, set with
// -ldflags "-X go.trai.ch/kiln/internal/build.Version=...".
var Version = "dev"

// Commit is the source revision the binary was built from, if known.
var Commit = ""

// Info returns the version line printed by "kiln version".
func Info() string {
	if Commit == "" {
		return fmt.Sprintf("kiln %s", Version)
	}
	return fmt.Sprintf("kiln %s (%s)", Version, Commit)
}
