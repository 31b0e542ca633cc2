package api

// Handler serves the generated feed files of one build output directory.
type Handler struct {
	dir     string
	version string
}
