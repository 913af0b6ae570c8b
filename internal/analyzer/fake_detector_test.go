package analyzer

import (
	"context"
	"fmt"
	"sync"

	"github.com/getmarco/medtextanalyze/internal/models"
)

type pageCall struct {
	jobID      string
	maxResults int32
	token      string
}

type pageResult struct {
	page *models.DetectionPage
	err  error
}

// fakeDetector scripts detector responses for the pipeline tests. Page
// results are consumed in order; defaultPage answers once the script runs
// out.
type fakeDetector struct {
	mu sync.Mutex

	startJobID string
	startErr   error
	startCalls int

	detectBlocks [][]models.Block
	detectErr    error
	detectCalls  int

	pages       []pageResult
	defaultPage *models.DetectionPage
	pageCalls   []pageCall
}

func (f *fakeDetector) DetectDocumentText(ctx context.Context, input DetectInput) ([]models.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.detectCalls
	f.detectCalls++
	if f.detectErr != nil {
		return nil, f.detectErr
	}
	if call < len(f.detectBlocks) {
		return f.detectBlocks[call], nil
	}
	return nil, nil
}

func (f *fakeDetector) StartTextDetection(ctx context.Context, doc models.DocumentReference, tag string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	if f.startErr != nil {
		return "", f.startErr
	}
	return f.startJobID, nil
}

func (f *fakeDetector) TextDetectionPage(ctx context.Context, jobID string, maxResults int32, nextToken string) (*models.DetectionPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := len(f.pageCalls)
	f.pageCalls = append(f.pageCalls, pageCall{jobID: jobID, maxResults: maxResults, token: nextToken})
	if call < len(f.pages) {
		next := f.pages[call]
		return next.page, next.err
	}
	if f.defaultPage != nil {
		return f.defaultPage, nil
	}
	return nil, fmt.Errorf("unexpected page request %d for job %s", call+1, jobID)
}

func (f *fakeDetector) calls() []pageCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]pageCall, len(f.pageCalls))
	copy(calls, f.pageCalls)
	return calls
}

type fakeEntityDetector struct {
	entities []models.Entity
	err      error
	lastText string
}

func (f *fakeEntityDetector) DetectEntities(ctx context.Context, text string) ([]models.Entity, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.entities, nil
}

func statusPage(status models.JobStatus) pageResult {
	return pageResult{page: &models.DetectionPage{Status: status}}
}
