package cfg

type Cfg struct {
	// Preview cache configuration
	CachePath string

	// Serve mode configuration
	Port     string
	ServeDir string

	// Preview tuning
	MinBodyChars int

	// Application metadata
	Debug   bool
	Version string
}
