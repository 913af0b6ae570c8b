package analyzer

import (
	"strings"

	"github.com/getmarco/medtextanalyze/internal/models"
)

// TextAggregator reduces detected blocks to extracted text. LINE blocks
// contribute their text followed by a newline; PAGE blocks contribute a bare
// newline as a page separator; every other kind is ignored. The accumulator
// is append-only so it can be carried across paginated result batches
// without resetting mid-job.
type TextAggregator struct {
	b strings.Builder
}

// NewTextAggregator returns an empty accumulator.
func NewTextAggregator() *TextAggregator {
	return &TextAggregator{}
}

// Append folds one batch of blocks into the accumulator, in arrival order.
// An empty LINE still appends its newline; unrecognized kinds degrade by
// being skipped, never by failing.
func (a *TextAggregator) Append(blocks []models.Block) {
	for _, block := range blocks {
		switch block.Kind {
		case models.BlockKindLine:
			a.b.WriteString(block.Text)
			a.b.WriteString("\n")
		case models.BlockKindPage:
			a.b.WriteString("\n")
		}
	}
}

// Text returns the accumulated text.
func (a *TextAggregator) Text() string {
	return a.b.String()
}

// Len returns the accumulated byte count.
func (a *TextAggregator) Len() int {
	return a.b.Len()
}
