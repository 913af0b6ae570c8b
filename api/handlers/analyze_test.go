package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmarco/medtextanalyze/internal/analyzer"
	"github.com/getmarco/medtextanalyze/internal/models"
	"github.com/getmarco/medtextanalyze/internal/utils/validator"
	"github.com/getmarco/medtextanalyze/pkg/logger"
	"github.com/getmarco/medtextanalyze/pkg/queue"
)

type stubService struct {
	uploadTarget *models.UploadTarget
	text         string
	report       string
	reports      []string
	task         *models.AnalysisTask
	err          error
}

func (s *stubService) CreateUploadURL(ctx context.Context) (*models.UploadTarget, error) {
	return s.uploadTarget, s.err
}

func (s *stubService) ImageText(ctx context.Context, doc models.DocumentReference) (string, error) {
	return s.text, s.err
}

func (s *stubService) PDFText(ctx context.Context, doc models.DocumentReference, strategy models.ExtractionStrategy) (string, error) {
	return s.text, s.err
}

func (s *stubService) EntityReport(ctx context.Context, text string) (string, error) {
	return s.report, s.err
}

func (s *stubService) EntityReportBatch(ctx context.Context, texts []string) ([]string, error) {
	return s.reports, s.err
}

func (s *stubService) StartPDFTask(ctx context.Context, doc models.DocumentReference, strategy string) (*models.AnalysisTask, error) {
	return s.task, s.err
}

func (s *stubService) TaskStatus(ctx context.Context, taskID string) (*models.AnalysisTask, error) {
	return s.task, s.err
}

func (s *stubService) TaskResult(ctx context.Context, taskID string) (string, error) {
	return s.text, s.err
}

func (s *stubService) CancelTask(ctx context.Context, taskID string) error {
	return s.err
}

func (s *stubService) HandlePDFTask(ctx context.Context, task *queue.Task) error {
	return s.err
}

func newTestRouter(service *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAnalyzeHandler(service, logger.NewTestLogger())
	r := gin.New()
	r.POST("/text/pdf", h.PDFText)
	r.POST("/entities", h.Entities)
	r.POST("/uploads/url", h.CreateUploadURL)
	r.GET("/tasks/:taskId", h.TaskStatus)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestPDFTextSuccessEnvelope(t *testing.T) {
	r := newTestRouter(&stubService{text: "extracted\n"})

	w := postJSON(t, r, "/text/pdf", gin.H{"bucket": "b", "key": "doc.pdf"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "SUCCESS", body["status"])
	assert.Equal(t, "extracted\n", body["text"])
}

func TestPDFTextRejectsUnknownStrategy(t *testing.T) {
	r := newTestRouter(&stubService{text: "unused"})

	w := postJSON(t, r, "/text/pdf", gin.H{"bucket": "b", "key": "doc.pdf", "strategy": "tesseract"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "FAILURE", body["status"])
	assert.Contains(t, body["message"], "error - ")
}

func TestValidationErrorsMapToBadRequest(t *testing.T) {
	r := newTestRouter(&stubService{err: &validator.ValidationError{Field: "bucket name"}})

	w := postJSON(t, r, "/text/pdf", gin.H{"key": "doc.pdf"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "FAILURE", body["status"])
	assert.Equal(t, "error - missing bucket name", body["message"])
}

func TestMalformedEntityMapsToUnprocessable(t *testing.T) {
	r := newTestRouter(&stubService{err: &analyzer.MalformedEntityError{Index: 2, Reason: "missing category"}})

	w := postJSON(t, r, "/entities", gin.H{"text": "some medical text"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestJobTimeoutMapsToGatewayTimeout(t *testing.T) {
	r := newTestRouter(&stubService{err: analyzer.ErrJobTimeout})

	w := postJSON(t, r, "/text/pdf", gin.H{"bucket": "b", "key": "doc.pdf"})
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestJobFailedMapsToBadGateway(t *testing.T) {
	r := newTestRouter(&stubService{err: &analyzer.JobFailedError{JobID: "job-1", Status: models.JobStatusFailed}})

	w := postJSON(t, r, "/text/pdf", gin.H{"bucket": "b", "key": "doc.pdf"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestUnknownErrorMapsToInternal(t *testing.T) {
	r := newTestRouter(&stubService{err: assert.AnError})

	w := postJSON(t, r, "/text/pdf", gin.H{"bucket": "b", "key": "doc.pdf"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreateUploadURLResponse(t *testing.T) {
	r := newTestRouter(&stubService{uploadTarget: &models.UploadTarget{
		Bucket: "med-uploads",
		Key:    "abc-123",
		Link:   "https://upload.example/abc-123",
	}})

	w := postJSON(t, r, "/uploads/url", gin.H{})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "SUCCESS", body["status"])
	assert.Equal(t, "med-uploads", body["bucket"])
	assert.Equal(t, "abc-123", body["key"])
	assert.Equal(t, "https://upload.example/abc-123", body["link"])
}

func TestTaskStatusResponse(t *testing.T) {
	r := newTestRouter(&stubService{task: &models.AnalysisTask{
		ID:       "task-1",
		State:    models.TaskStateRunning,
		Progress: 0.5,
	}})

	req := httptest.NewRequest(http.MethodGet, "/tasks/task-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "task-1", body["taskId"])
	assert.Equal(t, "running", body["state"])
	assert.Equal(t, 0.5, body["progress"])
}
