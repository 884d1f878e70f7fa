package version

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/modelsite/internal/version.Version=v0.3.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	s := "modelsite " + Version
	if GitCommit != "unknown" && GitCommit != "" {
		s += " (" + GitCommit
		if BuildTime != "unknown" && BuildTime != "" {
			s += ", built " + BuildTime
		}
		s += ")"
	}
	return s
}
