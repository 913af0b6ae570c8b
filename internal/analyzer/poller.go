package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/getmarco/medtextanalyze/internal/models"
	"github.com/getmarco/medtextanalyze/pkg/logger"
)

const (
	defaultPollInterval = 10 * time.Second
	defaultMaxWait      = 10 * time.Minute
)

// PollerConfig bounds the polling loop. MaxWait is the total budget for a
// job to leave IN_PROGRESS; without it a stalled job would block forever.
type PollerConfig struct {
	Interval time.Duration
	MaxWait  time.Duration
}

// JobPoller drives an asynchronous text detection job from submission to a
// terminal status by polling the remote service on a fixed interval.
type JobPoller struct {
	detector TextDetector
	cfg      PollerConfig
	logger   logger.Logger
}

// NewJobPoller creates a poller over the given detector. Zero config values
// fall back to the defaults (10s interval, 10m budget).
func NewJobPoller(detector TextDetector, cfg PollerConfig, log logger.Logger) *JobPoller {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultPollInterval
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defaultMaxWait
	}
	return &JobPoller{detector: detector, cfg: cfg, logger: log}
}

// Submit starts a detection job for the stored document and returns its job
// handle. A rejection from the remote service is surfaced as-is and never
// retried here.
func (p *JobPoller) Submit(ctx context.Context, doc models.DocumentReference, tag string) (string, error) {
	jobID, err := p.detector.StartTextDetection(ctx, doc, tag)
	if err != nil {
		return "", fmt.Errorf("start text detection: %w", err)
	}
	p.logger.Info("text detection job submitted",
		logger.String("jobId", jobID),
		logger.String("bucket", doc.Bucket),
		logger.String("key", doc.Key),
	)
	return jobID, nil
}

// AwaitCompletion blocks until the job reports any status other than
// IN_PROGRESS and returns that status; distinguishing failure from success
// is the caller's responsibility. Context cancellation surfaces as
// ErrInterrupted, an exhausted wait budget as ErrJobTimeout. Nothing is
// cached between polls beyond the job handle.
func (p *JobPoller) AwaitCompletion(ctx context.Context, jobID string) (models.JobStatus, error) {
	deadline := time.NewTimer(p.cfg.MaxWait)
	defer deadline.Stop()
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for polls := 0; ; {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("job %s after %d polls: %w", jobID, polls, ErrInterrupted)
		case <-deadline.C:
			return "", fmt.Errorf("job %s after %s: %w", jobID, p.cfg.MaxWait, ErrJobTimeout)
		case <-ticker.C:
			// Status-only read; MaxResults 1 keeps the payload minimal.
			page, err := p.detector.TextDetectionPage(ctx, jobID, 1, "")
			if err != nil {
				return "", fmt.Errorf("poll text detection job %s: %w", jobID, err)
			}
			polls++
			if page.Status.Terminal() {
				p.logger.Info("text detection job finished",
					logger.String("jobId", jobID),
					logger.String("status", string(page.Status)),
					logger.Int("polls", polls),
				)
				return page.Status, nil
			}
		}
	}
}
