package feed

import (
	"strings"
	"testing"
)

func TestVerifierAcceptsWellFormedDocuments(t *testing.T) {
	builder := NewBuilder(testChannel, Options{EmitAtom: true, EmitJSON: true}, 0, nil)

	files, err := builder.Run(nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if err := NewVerifier().Run(files); err != nil {
		t.Errorf("Expected empty feeds to verify, got: %v", err)
	}
}

func TestVerifierReportsBrokenDocuments(t *testing.T) {
	files := []OutputFile{
		{Name: "rss.xml", Data: []byte("<rss><channel>")},
	}

	err := NewVerifier().Run(files)
	if err == nil {
		t.Fatal("Expected an error for a truncated document")
	}
	if !strings.Contains(err.Error(), "rss.xml") {
		t.Errorf("Expected the failing file name in the error, got: %v", err)
	}
}
