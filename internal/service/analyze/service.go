package analyze

import (
	"context"

	"github.com/getmarco/medtextanalyze/internal/models"
	"github.com/getmarco/medtextanalyze/pkg/queue"
)

// TextAnalyzer is the pipeline boundary the service drives.
type TextAnalyzer interface {
	ImageText(ctx context.Context, doc models.DocumentReference) (string, error)
	PDFText(ctx context.Context, doc models.DocumentReference) (string, error)
	PDFTextPages(ctx context.Context, data []byte) (string, error)
	EntityReport(ctx context.Context, text string) (string, error)
}

// Service exposes the document analysis operations to the transport layer
// and the worker.
type Service interface {
	// CreateUploadURL issues a fresh write-once upload location.
	CreateUploadURL(ctx context.Context) (*models.UploadTarget, error)
	// ImageText extracts text from a stored image synchronously.
	ImageText(ctx context.Context, doc models.DocumentReference) (string, error)
	// PDFText extracts text from a stored PDF using the given strategy.
	PDFText(ctx context.Context, doc models.DocumentReference, strategy models.ExtractionStrategy) (string, error)
	// EntityReport classifies free text into a rendered entity report.
	EntityReport(ctx context.Context, text string) (string, error)
	// EntityReportBatch classifies independent texts concurrently.
	EntityReportBatch(ctx context.Context, texts []string) ([]string, error)
	// StartPDFTask queues a background PDF analysis.
	StartPDFTask(ctx context.Context, doc models.DocumentReference, strategy string) (*models.AnalysisTask, error)
	// TaskStatus reports the state of a queued analysis.
	TaskStatus(ctx context.Context, taskID string) (*models.AnalysisTask, error)
	// TaskResult returns the extracted text of a completed analysis.
	TaskResult(ctx context.Context, taskID string) (string, error)
	// CancelTask removes a pending analysis from the queue.
	CancelTask(ctx context.Context, taskID string) error
	// HandlePDFTask runs one queued analysis; the worker calls this.
	HandlePDFTask(ctx context.Context, task *queue.Task) error
}
