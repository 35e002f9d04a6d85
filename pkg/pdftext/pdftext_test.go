package pdftext

import (
	"errors"
	"testing"
)

func TestExtractTextEmptyDocument(t *testing.T) {
	extractor := NewExtractor()

	_, err := extractor.ExtractText(nil)
	if err == nil {
		t.Fatal("Expected error for empty document")
	}

	var extractionError *ExtractionError
	if !errors.As(err, &extractionError) {
		t.Errorf("Expected *ExtractionError, got %T", err)
	}
}

func TestExtractTextMalformedDocument(t *testing.T) {
	extractor := NewExtractor()

	tests := []struct {
		name  string
		bytes []byte
	}{
		{name: "plain text", bytes: []byte("this is not a pdf document at all")},
		{name: "truncated header", bytes: []byte("%PDF-1.7\n")},
		{name: "binary garbage", bytes: []byte{0x00, 0xff, 0x13, 0x37, 0x00, 0xff}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := extractor.ExtractText(test.bytes)
			if err == nil {
				t.Fatal("Expected error for malformed document")
			}

			var extractionError *ExtractionError
			if !errors.As(err, &extractionError) {
				t.Errorf("Expected *ExtractionError, got %T: %v", err, err)
			}
		})
	}
}

func TestExtractionErrorUnwrap(t *testing.T) {
	cause := errors.New("broken xref")
	extractionError := &ExtractionError{Cause: cause}

	if !errors.Is(extractionError, cause) {
		t.Error("Expected Unwrap to expose the cause")
	}
}
