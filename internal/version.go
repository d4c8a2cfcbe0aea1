package internal

var (
	Version = "v0.1.0"
	Commit  = ""
)

func PrintableVersion() string {
	if Commit != "" {
		return Version + " (" + Commit + ")"
	}
	return Version
}
