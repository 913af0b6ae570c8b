package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/getmarco/medtextanalyze/internal/analyzer"
	"github.com/getmarco/medtextanalyze/internal/models"
	"github.com/getmarco/medtextanalyze/internal/service/analyze"
	"github.com/getmarco/medtextanalyze/internal/utils/validator"
	"github.com/getmarco/medtextanalyze/pkg/logger"
)

// Envelope status values.
const (
	statusSuccess = "SUCCESS"
	statusFailure = "FAILURE"
)

// AnalyzeHandler serves the document analysis endpoints.
type AnalyzeHandler struct {
	service analyze.Service
	logger  logger.Logger
}

// NewAnalyzeHandler creates the handler.
func NewAnalyzeHandler(service analyze.Service, log logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{service: service, logger: log}
}

type documentInput struct {
	Bucket   string `json:"bucket"`
	Key      string `json:"key"`
	Strategy string `json:"strategy,omitempty"`
}

type textInput struct {
	Text string `json:"text"`
}

type batchInput struct {
	Texts []string `json:"texts"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CreateUploadURL issues a pre-signed upload location.
func (h *AnalyzeHandler) CreateUploadURL(c *gin.Context) {
	target, err := h.service.CreateUploadURL(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": statusSuccess,
		"bucket": target.Bucket,
		"key":    target.Key,
		"link":   target.Link,
	})
}

// ImageText extracts text from a stored image.
func (h *AnalyzeHandler) ImageText(c *gin.Context) {
	var input documentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	text, err := h.service.ImageText(c.Request.Context(), models.DocumentReference{
		Bucket: input.Bucket,
		Key:    input.Key,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "text": text})
}

// PDFText extracts text from a stored PDF.
func (h *AnalyzeHandler) PDFText(c *gin.Context) {
	var input documentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}
	strategy, err := models.ParseStrategy(input.Strategy, "")
	if err != nil {
		h.badRequest(c, err)
		return
	}

	text, err := h.service.PDFText(c.Request.Context(), models.DocumentReference{
		Bucket: input.Bucket,
		Key:    input.Key,
	}, strategy)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "text": text})
}

// Entities classifies free text into an entity report.
func (h *AnalyzeHandler) Entities(c *gin.Context) {
	var input textInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	report, err := h.service.EntityReport(c.Request.Context(), input.Text)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "text": report})
}

// EntitiesBatch classifies several independent texts.
func (h *AnalyzeHandler) EntitiesBatch(c *gin.Context) {
	var input batchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	reports, err := h.service.EntityReportBatch(c.Request.Context(), input.Texts)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "reports": reports})
}

// StartPDFTask queues a background PDF analysis.
func (h *AnalyzeHandler) StartPDFTask(c *gin.Context) {
	var input documentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	task, err := h.service.StartPDFTask(c.Request.Context(), models.DocumentReference{
		Bucket: input.Bucket,
		Key:    input.Key,
	}, input.Strategy)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    statusSuccess,
		"taskId":    task.ID,
		"state":     string(task.State),
		"strategy":  string(task.Strategy),
		"createdAt": task.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// TaskStatus reports a queued analysis task.
func (h *AnalyzeHandler) TaskStatus(c *gin.Context) {
	task, err := h.service.TaskStatus(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   statusSuccess,
		"taskId":   task.ID,
		"state":    string(task.State),
		"progress": task.Progress,
		"error":    task.Error,
	})
}

// TaskResult returns the extracted text of a completed task.
func (h *AnalyzeHandler) TaskResult(c *gin.Context) {
	text, err := h.service.TaskResult(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "text": text})
}

// CancelTask removes a pending task.
func (h *AnalyzeHandler) CancelTask(c *gin.Context) {
	taskID := c.Param("taskId")
	if err := h.service.CancelTask(c.Request.Context(), taskID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "taskId": taskID})
}

func (h *AnalyzeHandler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{
		Status:  statusFailure,
		Message: "error - " + err.Error(),
	})
}

// handleError maps the pipeline's error taxonomy onto HTTP statuses; any
// failure becomes a FAILURE envelope rather than crashing the process.
func (h *AnalyzeHandler) handleError(c *gin.Context, err error) {
	h.logger.Error("request failed",
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)

	status := http.StatusInternalServerError
	var (
		validationErr *validator.ValidationError
		malformedErr  *analyzer.MalformedEntityError
		remoteErr     *analyzer.RemoteError
		jobFailedErr  *analyzer.JobFailedError
	)
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &malformedErr):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, analyzer.ErrJobTimeout):
		status = http.StatusGatewayTimeout
	case errors.As(err, &remoteErr), errors.As(err, &jobFailedErr):
		status = http.StatusBadGateway
	}

	c.JSON(status, errorResponse{
		Status:  statusFailure,
		Message: "error - " + err.Error(),
	})
}
