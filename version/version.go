package version

// Set at build time with
// -ldflags "-X github.com/ChristianF88/fjsort/version.Version=... -X github.com/ChristianF88/fjsort/version.Date=..."
var (
	Version = "dev"
	Date    = ""
)
