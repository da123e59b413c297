package version

// Version is the current version of argo-indicators.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-indicators/internal/version.Version=0.2.0"
// The value "main" indicates a development build.
var Version = "v0.1.0"

// ConfigVersion is the config file format version written by `config init`.
const ConfigVersion = "0.1.0"

// GetVersion returns the current version of the binary.
func GetVersion() string {
	return Version
}
