package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Verifier re-parses generated feed documents with gofeed to catch
// structural mistakes (broken XML, missing required elements) before they
// reach a real feed reader. Verification is advisory: the caller decides
// whether to warn or fail.
type Verifier struct {
	parser *gofeed.Parser
}

func NewVerifier() *Verifier {
	return &Verifier{
		parser: gofeed.NewParser(),
	}
}

// Run parses every output file and returns the joined parse failures, nil
// when all documents are well-formed.
func (v *Verifier) Run(files []OutputFile) error {
	var errs []error

	for _, file := range files {
		parsed, err := v.parser.Parse(strings.NewReader(string(file.Data)))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", file.Name, err))
			continue
		}

		slog.Debug("Verified feed document", "file", file.Name, "type", parsed.FeedType, "items", len(parsed.Items))
	}

	return errors.Join(errs...)
}
