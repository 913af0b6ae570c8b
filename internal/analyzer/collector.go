package analyzer

import (
	"context"
	"fmt"

	"github.com/getmarco/medtextanalyze/pkg/logger"
)

const defaultPageMaxResults = 1000

// ResultCollector walks the cursor-based result pages of a completed
// detection job and streams every page's blocks into a TextAggregator.
type ResultCollector struct {
	detector   TextDetector
	maxResults int32
	logger     logger.Logger
}

// NewResultCollector creates a collector. maxResults bounds blocks per page;
// zero selects the default of 1000.
func NewResultCollector(detector TextDetector, maxResults int32, log logger.Logger) *ResultCollector {
	if maxResults <= 0 {
		maxResults = defaultPageMaxResults
	}
	return &ResultCollector{detector: detector, maxResults: maxResults, logger: log}
}

// CollectInto requests pages strictly sequentially, following the cursor
// chain until no token remains. Block ordering, and therefore page-break
// placement, depends on cursor order, so pages are never fetched
// concurrently. A page failure propagates immediately; text already folded
// into agg is left intact for the caller to judge.
func (c *ResultCollector) CollectInto(ctx context.Context, jobID string, agg *TextAggregator) error {
	token := ""
	pages := 0
	for {
		page, err := c.detector.TextDetectionPage(ctx, jobID, c.maxResults, token)
		if err != nil {
			return fmt.Errorf("fetch results page %d of job %s: %w", pages+1, jobID, err)
		}
		pages++
		agg.Append(page.Blocks)
		if page.NextToken == "" {
			c.logger.Debug("collected all detection results",
				logger.String("jobId", jobID),
				logger.Int("pages", pages),
			)
			return nil
		}
		token = page.NextToken
	}
}
