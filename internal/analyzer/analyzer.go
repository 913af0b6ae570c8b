package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/getmarco/medtextanalyze/internal/models"
	"github.com/getmarco/medtextanalyze/pkg/logger"
)

const defaultJobTag = "DetectingText"

// PageSplitter turns a multi-page document into per-page documents for the
// synchronous detection path.
type PageSplitter interface {
	Split(ctx context.Context, data []byte) ([][]byte, error)
}

// ImageNormalizer adapts raw image bytes to what the detection service
// accepts (dimension limits in particular).
type ImageNormalizer interface {
	Normalize(data []byte) ([]byte, error)
}

// Config tunes the analysis pipeline.
type Config struct {
	// JobTag labels submitted detection jobs.
	JobTag string
	// PollInterval and MaxWait bound the job polling loop.
	PollInterval time.Duration
	MaxWait      time.Duration
	// PageMaxResults bounds blocks per result page when collecting.
	PageMaxResults int32
}

// Analyzer runs the text extraction and entity classification pipeline.
// Each call owns its own job handle, cursor and accumulator, so one
// Analyzer can serve concurrent requests without locking.
type Analyzer struct {
	text       TextDetector
	entities   EntityDetector
	poller     *JobPoller
	collector  *ResultCollector
	classifier *EntityClassifier
	splitter   PageSplitter
	normalizer ImageNormalizer
	jobTag     string
	logger     logger.Logger
}

// New wires the pipeline from injected collaborators.
func New(
	text TextDetector,
	entities EntityDetector,
	splitter PageSplitter,
	normalizer ImageNormalizer,
	cfg Config,
	log logger.Logger,
) *Analyzer {
	if cfg.JobTag == "" {
		cfg.JobTag = defaultJobTag
	}
	return &Analyzer{
		text:       text,
		entities:   entities,
		poller:     NewJobPoller(text, PollerConfig{Interval: cfg.PollInterval, MaxWait: cfg.MaxWait}, log),
		collector:  NewResultCollector(text, cfg.PageMaxResults, log),
		classifier: NewEntityClassifier(log),
		splitter:   splitter,
		normalizer: normalizer,
		jobTag:     cfg.JobTag,
		logger:     log,
	}
}

// ImageText runs synchronous detection over a stored image and returns the
// extracted text.
func (a *Analyzer) ImageText(ctx context.Context, doc models.DocumentReference) (string, error) {
	blocks, err := a.text.DetectDocumentText(ctx, DetectInput{Document: &doc})
	if err != nil {
		return "", err
	}
	agg := NewTextAggregator()
	agg.Append(blocks)
	return agg.Text(), nil
}

// ImageTextBytes runs synchronous detection over raw image bytes, after
// normalizing them to the service's limits.
func (a *Analyzer) ImageTextBytes(ctx context.Context, data []byte) (string, error) {
	if a.normalizer != nil {
		normalized, err := a.normalizer.Normalize(data)
		if err != nil {
			return "", fmt.Errorf("normalize image: %w", err)
		}
		data = normalized
	}
	blocks, err := a.text.DetectDocumentText(ctx, DetectInput{Bytes: data})
	if err != nil {
		return "", err
	}
	agg := NewTextAggregator()
	agg.Append(blocks)
	return agg.Text(), nil
}

// PDFText runs the asynchronous job pipeline over a stored PDF: submit the
// job, poll to a terminal status, then collect every result page into one
// text blob. A terminal status other than SUCCEEDED fails the call.
func (a *Analyzer) PDFText(ctx context.Context, doc models.DocumentReference) (string, error) {
	jobID, err := a.poller.Submit(ctx, doc, a.jobTag)
	if err != nil {
		return "", err
	}
	status, err := a.poller.AwaitCompletion(ctx, jobID)
	if err != nil {
		return "", err
	}
	if status != models.JobStatusSucceeded {
		return "", &JobFailedError{JobID: jobID, Status: status}
	}

	agg := NewTextAggregator()
	if err := a.collector.CollectInto(ctx, jobID, agg); err != nil {
		return "", err
	}
	return agg.Text(), nil
}

// PDFTextPages splits a PDF into single-page documents and runs synchronous
// detection over each page in order, folding all blocks through one
// accumulator so page breaks land where the source pages do.
func (a *Analyzer) PDFTextPages(ctx context.Context, data []byte) (string, error) {
	if a.splitter == nil {
		return "", fmt.Errorf("page-split extraction is not configured")
	}
	pages, err := a.splitter.Split(ctx, data)
	if err != nil {
		return "", fmt.Errorf("split pdf: %w", err)
	}

	agg := NewTextAggregator()
	for i, page := range pages {
		blocks, err := a.text.DetectDocumentText(ctx, DetectInput{Bytes: page})
		if err != nil {
			return "", fmt.Errorf("detect text on page %d: %w", i+1, err)
		}
		agg.Append(blocks)
	}
	return agg.Text(), nil
}

// EntityReport classifies the given text and renders the entity report.
func (a *Analyzer) EntityReport(ctx context.Context, text string) (string, error) {
	entities, err := a.entities.DetectEntities(ctx, text)
	if err != nil {
		return "", err
	}
	return a.classifier.Classify(entities)
}
