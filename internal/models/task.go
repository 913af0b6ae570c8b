package models

import (
	"fmt"
	"time"
)

// ExtractionStrategy selects how text is pulled out of a PDF. The job-based
// path has the highest fidelity for scans but the highest latency; the
// page-split path trades fidelity on large documents for synchronous calls;
// the embedded path reads the PDF's own text layer and never touches the
// detection service.
type ExtractionStrategy string

const (
	StrategyAsync     ExtractionStrategy = "async"
	StrategyPageSplit ExtractionStrategy = "pagesplit"
	StrategyEmbedded  ExtractionStrategy = "embedded"
)

// ParseStrategy validates a strategy name. Empty input selects the given
// default.
func ParseStrategy(raw string, fallback ExtractionStrategy) (ExtractionStrategy, error) {
	if raw == "" {
		return fallback, nil
	}
	switch ExtractionStrategy(raw) {
	case StrategyAsync, StrategyPageSplit, StrategyEmbedded:
		return ExtractionStrategy(raw), nil
	default:
		return "", fmt.Errorf("unknown extraction strategy: %q", raw)
	}
}

// TaskState is the lifecycle state of a queued analysis task.
type TaskState string

const (
	TaskStatePending   TaskState = "pending"
	TaskStateRunning   TaskState = "running"
	TaskStateCompleted TaskState = "completed"
	TaskStateFailed    TaskState = "failed"
	TaskStateCancelled TaskState = "cancelled"
)

// AnalysisTask tracks one background PDF analysis request.
type AnalysisTask struct {
	ID        string             `json:"id"`
	State     TaskState          `json:"state"`
	Document  DocumentReference  `json:"document"`
	Strategy  ExtractionStrategy `json:"strategy"`
	Progress  float64            `json:"progress"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt,omitempty"`
}
