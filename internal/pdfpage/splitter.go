// Package pdfpage prepares PDF documents for the synchronous extraction
// path: splitting multi-page files into single-page documents and reading
// embedded text layers.
package pdfpage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/getmarco/medtextanalyze/pkg/logger"
)

// Splitter splits a PDF into one document per page, in page order. The
// synchronous detection service accepts single-page documents directly, so
// no rasterization is needed.
type Splitter struct {
	logger logger.Logger
}

// NewSplitter creates a Splitter.
func NewSplitter(log logger.Logger) *Splitter {
	return &Splitter{logger: log}
}

// Split writes the document to a scratch directory, splits it with pdfcpu
// and reads the per-page files back in page order.
func (s *Splitter) Split(ctx context.Context, data []byte) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "pdfpages-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	source := filepath.Join(dir, "source.pdf")
	if err := os.WriteFile(source, data, 0o600); err != nil {
		return nil, fmt.Errorf("write source pdf: %w", err)
	}

	pageCount, err := api.PageCountFile(source)
	if err != nil {
		return nil, fmt.Errorf("count pdf pages: %w", err)
	}
	if err := api.SplitFile(source, dir, 1, nil); err != nil {
		return nil, fmt.Errorf("split pdf: %w", err)
	}

	pages := make([][]byte, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		page, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("source_%d.pdf", i)))
		if err != nil {
			return nil, fmt.Errorf("read split page %d: %w", i, err)
		}
		pages = append(pages, page)
	}

	s.logger.Debug("split pdf into pages", logger.Int("pages", pageCount))
	return pages, nil
}
