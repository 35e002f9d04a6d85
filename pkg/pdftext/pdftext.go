// Package pdftext extracts plain text from PDF documents held in memory.
package pdftext

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ExtractionError reports that a document's text could not be extracted,
// typically because the bytes are not a well-formed PDF.
type ExtractionError struct {
	Cause error
}

// Error implements the error interface.
func (extractionError *ExtractionError) Error() string {
	return fmt.Sprintf("text extraction failed: %v", extractionError.Cause)
}

// Unwrap returns the underlying cause.
func (extractionError *ExtractionError) Unwrap() error {
	return extractionError.Cause
}

// Extractor extracts plain text from PDF bytes.
type Extractor struct{}

// NewExtractor creates a PDF text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the concatenated plain text of every page in the
// document. Malformed or unsupported documents yield an *ExtractionError.
func (extractor *Extractor) ExtractText(documentBytes []byte) (extractedText string, err error) {
	// The underlying reader panics on some malformed cross-reference tables
	// instead of returning an error; convert those to ExtractionError so a
	// bad document cannot take down a whole batch run.
	defer func() {
		if recovered := recover(); recovered != nil {
			extractedText = ""
			err = &ExtractionError{Cause: fmt.Errorf("reader panic: %v", recovered)}
		}
	}()

	if len(documentBytes) == 0 {
		return "", &ExtractionError{Cause: fmt.Errorf("document is empty")}
	}

	reader, err := pdf.NewReader(bytes.NewReader(documentBytes), int64(len(documentBytes)))
	if err != nil {
		return "", &ExtractionError{Cause: err}
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Cause: err}
	}

	var textBuffer bytes.Buffer
	if _, err := textBuffer.ReadFrom(textReader); err != nil {
		return "", &ExtractionError{Cause: err}
	}

	return textBuffer.String(), nil
}
