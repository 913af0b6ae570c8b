package analyze

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/getmarco/medtextanalyze/internal/models"
	"github.com/getmarco/medtextanalyze/internal/pdfpage"
	"github.com/getmarco/medtextanalyze/internal/utils/validator"
	"github.com/getmarco/medtextanalyze/pkg/logger"
	"github.com/getmarco/medtextanalyze/pkg/queue"
	"github.com/getmarco/medtextanalyze/pkg/storage"
)

// Config tunes the service layer.
type Config struct {
	// UploadBucket is the bucket upload locations are issued in.
	UploadBucket string
	// URLTTL bounds the validity of pre-signed upload URLs.
	URLTTL time.Duration
	// DefaultStrategy applies when a request names none.
	DefaultStrategy models.ExtractionStrategy
}

type analyzeService struct {
	pipeline TextAnalyzer
	store    storage.UploadStore
	queue    queue.Queue
	logger   logger.Logger
	cfg      Config
}

// NewService wires the service from injected collaborators.
func NewService(
	pipeline TextAnalyzer,
	store storage.UploadStore,
	q queue.Queue,
	cfg Config,
	log logger.Logger,
) Service {
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = 30 * time.Minute
	}
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = models.StrategyAsync
	}
	return &analyzeService{
		pipeline: pipeline,
		store:    store,
		queue:    q,
		logger:   log,
		cfg:      cfg,
	}
}

func (s *analyzeService) CreateUploadURL(ctx context.Context) (*models.UploadTarget, error) {
	key := uuid.New().String()
	link, err := s.store.PresignPut(ctx, key, s.cfg.URLTTL)
	if err != nil {
		return nil, fmt.Errorf("create upload url: %w", err)
	}

	s.logger.Info("issued upload url",
		logger.String("bucket", s.cfg.UploadBucket),
		logger.String("key", key),
	)
	return &models.UploadTarget{
		Bucket: s.cfg.UploadBucket,
		Key:    key,
		Link:   link,
	}, nil
}

func (s *analyzeService) ImageText(ctx context.Context, doc models.DocumentReference) (string, error) {
	if err := validateDocument(doc); err != nil {
		return "", err
	}
	s.logger.Info("detecting text in image",
		logger.String("bucket", doc.Bucket),
		logger.String("key", doc.Key),
	)
	return s.pipeline.ImageText(ctx, doc)
}

func (s *analyzeService) PDFText(ctx context.Context, doc models.DocumentReference, strategy models.ExtractionStrategy) (string, error) {
	if err := validateDocument(doc); err != nil {
		return "", err
	}
	if strategy == "" {
		strategy = s.cfg.DefaultStrategy
	}

	s.logger.Info("detecting text in pdf",
		logger.String("bucket", doc.Bucket),
		logger.String("key", doc.Key),
		logger.String("strategy", string(strategy)),
	)

	switch strategy {
	case models.StrategyAsync:
		return s.pipeline.PDFText(ctx, doc)
	case models.StrategyPageSplit:
		data, err := s.fetchDocument(ctx, doc)
		if err != nil {
			return "", err
		}
		return s.pipeline.PDFTextPages(ctx, data)
	case models.StrategyEmbedded:
		data, err := s.fetchDocument(ctx, doc)
		if err != nil {
			return "", err
		}
		return pdfpage.EmbeddedText(data)
	default:
		return "", fmt.Errorf("unknown extraction strategy: %q", strategy)
	}
}

func (s *analyzeService) EntityReport(ctx context.Context, text string) (string, error) {
	if err := validator.Required(text, "text input"); err != nil {
		return "", err
	}
	return s.pipeline.EntityReport(ctx, text)
}

func (s *analyzeService) EntityReportBatch(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, &validator.ValidationError{Field: "texts"}
	}
	for _, text := range texts {
		if err := validator.Required(text, "text input"); err != nil {
			return nil, err
		}
	}

	reports := make([]string, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			report, err := s.pipeline.EntityReport(gctx, text)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *analyzeService) StartPDFTask(ctx context.Context, doc models.DocumentReference, strategy string) (*models.AnalysisTask, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	parsed, err := models.ParseStrategy(strategy, s.cfg.DefaultStrategy)
	if err != nil {
		return nil, err
	}

	task := &queue.Task{
		ID:        uuid.New().String(),
		Type:      queue.TaskTypePDFAnalyze,
		Document:  doc,
		Strategy:  parsed,
		CreatedAt: time.Now(),
	}
	if err := s.queue.Enqueue(ctx, task); err != nil {
		return nil, fmt.Errorf("enqueue analysis task: %w", err)
	}
	if err := s.queue.SaveStatus(ctx, &queue.TaskStatus{
		TaskID:    task.ID,
		State:     string(models.TaskStatePending),
		StartedAt: task.CreatedAt,
	}); err != nil {
		s.logger.Error("failed to save initial task status",
			logger.String("taskId", task.ID),
			logger.Error(err),
		)
	}

	s.logger.Info("queued pdf analysis task",
		logger.String("taskId", task.ID),
		logger.String("key", doc.Key),
		logger.String("strategy", string(parsed)),
	)
	return &models.AnalysisTask{
		ID:        task.ID,
		State:     models.TaskStatePending,
		Document:  doc,
		Strategy:  parsed,
		CreatedAt: task.CreatedAt,
	}, nil
}

func (s *analyzeService) TaskStatus(ctx context.Context, taskID string) (*models.AnalysisTask, error) {
	if err := validator.Required(taskID, "task id"); err != nil {
		return nil, err
	}
	status, err := s.queue.Status(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task status: %w", err)
	}
	return &models.AnalysisTask{
		ID:        status.TaskID,
		State:     models.TaskState(status.State),
		Progress:  status.Progress,
		Error:     status.Error,
		CreatedAt: status.StartedAt,
		UpdatedAt: status.FinishedAt,
	}, nil
}

func (s *analyzeService) TaskResult(ctx context.Context, taskID string) (string, error) {
	task, err := s.TaskStatus(ctx, taskID)
	if err != nil {
		return "", err
	}
	if task.State != models.TaskStateCompleted {
		return "", fmt.Errorf("task %s is not completed: %s", taskID, task.State)
	}

	reader, err := s.store.Get(ctx, resultKey(taskID))
	if err != nil {
		return "", fmt.Errorf("get task result: %w", err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read task result: %w", err)
	}
	return string(data), nil
}

func (s *analyzeService) CancelTask(ctx context.Context, taskID string) error {
	if err := validator.Required(taskID, "task id"); err != nil {
		return err
	}
	if err := s.queue.Cancel(ctx, taskID); err != nil {
		return fmt.Errorf("cancel task: %w", err)
	}
	s.logger.Info("task cancelled", logger.String("taskId", taskID))
	return nil
}

// HandlePDFTask runs one queued analysis to completion and persists both
// the result text and the final status. Each invocation owns its own job
// handle and accumulator, so tasks may run concurrently.
func (s *analyzeService) HandlePDFTask(ctx context.Context, task *queue.Task) error {
	if task == nil || task.ID == "" {
		return fmt.Errorf("invalid task: missing required data")
	}

	if err := s.queue.SaveStatus(ctx, &queue.TaskStatus{
		TaskID:    task.ID,
		State:     string(models.TaskStateRunning),
		StartedAt: task.CreatedAt,
	}); err != nil {
		s.logger.Error("failed to save running status",
			logger.String("taskId", task.ID),
			logger.Error(err),
		)
	}

	text, err := s.PDFText(ctx, task.Document, task.Strategy)
	if err != nil {
		s.failTask(ctx, task, err)
		return err
	}

	if err := s.store.Store(ctx, resultKey(task.ID), strings.NewReader(text)); err != nil {
		err = fmt.Errorf("store task result: %w", err)
		s.failTask(ctx, task, err)
		return err
	}

	if err := s.queue.SaveStatus(ctx, &queue.TaskStatus{
		TaskID:     task.ID,
		State:      string(models.TaskStateCompleted),
		Progress:   1.0,
		StartedAt:  task.CreatedAt,
		FinishedAt: time.Now(),
	}); err != nil {
		s.logger.Error("failed to save final status",
			logger.String("taskId", task.ID),
			logger.Error(err),
		)
	}

	s.logger.Info("pdf analysis task completed",
		logger.String("taskId", task.ID),
		logger.Int("textBytes", len(text)),
	)
	return nil
}

func (s *analyzeService) failTask(ctx context.Context, task *queue.Task, cause error) {
	if err := s.queue.SaveStatus(ctx, &queue.TaskStatus{
		TaskID:     task.ID,
		State:      string(models.TaskStateFailed),
		Error:      cause.Error(),
		StartedAt:  task.CreatedAt,
		FinishedAt: time.Now(),
	}); err != nil {
		s.logger.Error("failed to save failure status",
			logger.String("taskId", task.ID),
			logger.Error(err),
		)
	}
}

func (s *analyzeService) fetchDocument(ctx context.Context, doc models.DocumentReference) ([]byte, error) {
	reader, err := s.store.Get(ctx, doc.Key)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}

func validateDocument(doc models.DocumentReference) error {
	if err := validator.Required(doc.Bucket, "bucket name"); err != nil {
		return err
	}
	return validator.Required(doc.Key, "object key")
}

func resultKey(taskID string) string {
	return fmt.Sprintf("result:%s", taskID)
}
