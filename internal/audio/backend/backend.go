// Package backend names the audio output backends. It has no audio
// dependencies so configuration can validate a backend without linking one.
package backend

const (
	Speaker = "speaker"
	Oto     = "oto"
)

// Names lists the supported backends.
var Names = []string{Speaker, Oto}

// Known reports whether name is a supported backend.
func Known(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
