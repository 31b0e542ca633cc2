package feed

// GeneratorInterface is what every format renderer implements: one page plus
// channel metadata in, one self-contained serialized document out.
type GeneratorInterface interface {
	Run(channel Channel, page Page) (string, error)
}

var _ GeneratorInterface = (*RSSGenerator)(nil)
var _ GeneratorInterface = (*AtomGenerator)(nil)
var _ GeneratorInterface = (*JSONGenerator)(nil)
