package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmarco/medtextanalyze/internal/models"
	"github.com/getmarco/medtextanalyze/pkg/logger"
)

type fakeSplitter struct {
	pages [][]byte
	err   error
}

func (f *fakeSplitter) Split(ctx context.Context, data []byte) ([][]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

type passthroughNormalizer struct {
	calls int
}

func (n *passthroughNormalizer) Normalize(data []byte) ([]byte, error) {
	n.calls++
	return data, nil
}

func newTestAnalyzer(text TextDetector, entities EntityDetector, splitter PageSplitter) *Analyzer {
	return New(text, entities, splitter, &passthroughNormalizer{}, Config{
		PollInterval:   time.Millisecond,
		MaxWait:        time.Second,
		PageMaxResults: 100,
	}, logger.NewTestLogger())
}

func TestAnalyzerImageText(t *testing.T) {
	detector := &fakeDetector{
		detectBlocks: [][]models.Block{{
			{Kind: models.BlockKindPage},
			{Kind: models.BlockKindLine, Text: "Rx: Aspirin 81mg"},
		}},
	}
	a := newTestAnalyzer(detector, &fakeEntityDetector{}, nil)

	text, err := a.ImageText(context.Background(), models.DocumentReference{Bucket: "b", Key: "k"})
	require.NoError(t, err)
	assert.Equal(t, "\nRx: Aspirin 81mg\n", text)
}

func TestAnalyzerPDFText(t *testing.T) {
	detector := &fakeDetector{
		startJobID: "job-1",
		pages: []pageResult{
			statusPage(models.JobStatusInProgress),
			statusPage(models.JobStatusSucceeded),
			{page: &models.DetectionPage{
				Status:    models.JobStatusSucceeded,
				Blocks:    []models.Block{{Kind: models.BlockKindPage}, {Kind: models.BlockKindLine, Text: "page one"}},
				NextToken: "t1",
			}},
			{page: &models.DetectionPage{
				Status: models.JobStatusSucceeded,
				Blocks: []models.Block{{Kind: models.BlockKindPage}, {Kind: models.BlockKindLine, Text: "page two"}},
			}},
		},
	}
	a := newTestAnalyzer(detector, &fakeEntityDetector{}, nil)

	text, err := a.PDFText(context.Background(), models.DocumentReference{Bucket: "b", Key: "doc.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "\npage one\n\npage two\n", text)

	calls := detector.calls()
	require.Len(t, calls, 4)
	// Status polls read the smallest possible page.
	assert.Equal(t, int32(1), calls[0].maxResults)
	assert.Equal(t, int32(1), calls[1].maxResults)
	// Collection pages use the configured size and follow the cursor.
	assert.Equal(t, int32(100), calls[2].maxResults)
	assert.Equal(t, "t1", calls[3].token)
}

func TestAnalyzerPDFTextJobFailed(t *testing.T) {
	detector := &fakeDetector{
		startJobID: "job-1",
		pages:      []pageResult{statusPage(models.JobStatusFailed)},
	}
	a := newTestAnalyzer(detector, &fakeEntityDetector{}, nil)

	_, err := a.PDFText(context.Background(), models.DocumentReference{Bucket: "b", Key: "doc.pdf"})
	require.Error(t, err)

	var failed *JobFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "job-1", failed.JobID)
	assert.Equal(t, models.JobStatusFailed, failed.Status)
	// No result pages are fetched for a failed job.
	assert.Len(t, detector.calls(), 1)
}

func TestAnalyzerPDFTextPages(t *testing.T) {
	detector := &fakeDetector{
		detectBlocks: [][]models.Block{
			{{Kind: models.BlockKindPage}, {Kind: models.BlockKindLine, Text: "first page"}},
			{{Kind: models.BlockKindPage}, {Kind: models.BlockKindLine, Text: "second page"}},
		},
	}
	splitter := &fakeSplitter{pages: [][]byte{[]byte("p1"), []byte("p2")}}
	a := newTestAnalyzer(detector, &fakeEntityDetector{}, splitter)

	text, err := a.PDFTextPages(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "\nfirst page\n\nsecond page\n", text)
	assert.Equal(t, 2, detector.detectCalls)
}

func TestAnalyzerPDFTextPagesWithoutSplitter(t *testing.T) {
	a := New(&fakeDetector{}, &fakeEntityDetector{}, nil, nil, Config{}, logger.NewTestLogger())

	_, err := a.PDFTextPages(context.Background(), []byte("%PDF-1.4"))
	require.Error(t, err)
}

func TestAnalyzerImageTextBytesNormalizes(t *testing.T) {
	detector := &fakeDetector{
		detectBlocks: [][]models.Block{{{Kind: models.BlockKindLine, Text: "scanned"}}},
	}
	normalizer := &passthroughNormalizer{}
	a := New(detector, &fakeEntityDetector{}, nil, normalizer, Config{}, logger.NewTestLogger())

	text, err := a.ImageTextBytes(context.Background(), []byte{0x89, 0x50})
	require.NoError(t, err)
	assert.Equal(t, "scanned\n", text)
	assert.Equal(t, 1, normalizer.calls)
}

func TestAnalyzerEntityReport(t *testing.T) {
	entities := &fakeEntityDetector{entities: []models.Entity{
		{
			Category:    models.CategoryMedication,
			RawCategory: string(models.CategoryMedication),
			Text:        "Aspirin",
			Attributes:  []models.EntityAttribute{{Type: "DOSAGE", Text: "81mg"}},
		},
	}}
	a := newTestAnalyzer(&fakeDetector{}, entities, nil)

	report, err := a.EntityReport(context.Background(), "Take Aspirin 81mg daily")
	require.NoError(t, err)
	assert.Equal(t, "Medication: Aspirin\ndosage: 81mg\n-----\n", report)
	assert.Equal(t, "Take Aspirin 81mg daily", entities.lastText)
}
