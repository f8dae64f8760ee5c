package ingest

import (
	"bytes"
	"context"
	"fmt"

	"code.sajari.com/docconv"

	"github.com/mentora-labs/mentora/internal/models"
)

// PDFExtractor extracts plain text from a PDF payload in linear reading
// order. No layout reconstruction is attempted.
type PDFExtractor struct{}

func (PDFExtractor) Extract(ctx context.Context, src models.SourceDescriptor) (Extraction, error) {
	if len(src.FileBytes) == 0 {
		return Extraction{}, ErrMissingFile
	}
	if err := ctx.Err(); err != nil {
		return Extraction{}, err
	}

	res, err := docconv.Convert(bytes.NewReader(src.FileBytes), "application/pdf", false)
	if err != nil {
		return Extraction{}, fmt.Errorf("pdf convert: %w", err)
	}
	if res.Body == "" {
		return Extraction{}, fmt.Errorf("pdf contained no extractable text")
	}

	title := src.Title
	if title == "" {
		title = src.FileName
	}
	return Extraction{Text: res.Body, Title: title}, nil
}
