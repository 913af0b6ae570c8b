package analyzer

import (
	"context"

	"github.com/getmarco/medtextanalyze/internal/models"
)

// DetectInput selects the source for a synchronous text detection call:
// either a stored document reference or raw bytes, never both.
type DetectInput struct {
	Document *models.DocumentReference
	Bytes    []byte
}

// TextDetector is the boundary to the remote text detection service.
// Implementations wrap an already-constructed client handle; pipeline
// components never reach into ambient configuration themselves.
type TextDetector interface {
	// DetectDocumentText runs synchronous detection over a single document
	// or image and returns its blocks in delivery order.
	DetectDocumentText(ctx context.Context, input DetectInput) ([]models.Block, error)

	// StartTextDetection submits an asynchronous detection job for a stored
	// document and returns the opaque job handle.
	StartTextDetection(ctx context.Context, doc models.DocumentReference, tag string) (string, error)

	// TextDetectionPage reads one page of job results. An empty nextToken
	// requests the first page; maxResults bounds blocks per page.
	TextDetectionPage(ctx context.Context, jobID string, maxResults int32, nextToken string) (*models.DetectionPage, error)
}

// EntityDetector is the boundary to the remote entity classification
// service.
type EntityDetector interface {
	DetectEntities(ctx context.Context, text string) ([]models.Entity, error)
}
