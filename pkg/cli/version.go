package cli

// Version is the modem's release string.
const Version = "1.0.0"

// VersionString renders the --version banner.
func VersionString() string {
	return "fskmodem " + Version
}
