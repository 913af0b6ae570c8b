// Package app assembles the analysis service from configuration. Both the
// API server and the task worker build the same pipeline; all clients are
// constructed here once and injected, nothing is resolved lazily.
package app

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/comprehendmedical"
	"github.com/aws/aws-sdk-go-v2/service/textract"

	"github.com/getmarco/medtextanalyze/config"
	"github.com/getmarco/medtextanalyze/internal/analyzer"
	"github.com/getmarco/medtextanalyze/internal/models"
	"github.com/getmarco/medtextanalyze/internal/pdfpage"
	"github.com/getmarco/medtextanalyze/internal/preprocess"
	"github.com/getmarco/medtextanalyze/internal/service/analyze"
	"github.com/getmarco/medtextanalyze/pkg/logger"
	"github.com/getmarco/medtextanalyze/pkg/queue"
	"github.com/getmarco/medtextanalyze/pkg/storage"
)

// BuildService wires the full analysis service from the loaded config.
func BuildService(ctx context.Context, cfg *config.Config, log logger.Logger) (analyze.Service, error) {
	awsCfg, err := cfg.LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	pipeline := analyzer.New(
		analyzer.NewTextractDetector(textract.NewFromConfig(awsCfg)),
		analyzer.NewComprehendDetector(comprehendmedical.NewFromConfig(awsCfg)),
		pdfpage.NewSplitter(log),
		preprocess.NewNormalizer(0, log),
		analyzer.Config{
			JobTag:         cfg.Detection.JobTag,
			PollInterval:   cfg.Detection.PollInterval.Std(),
			MaxWait:        cfg.Detection.MaxWait.Std(),
			PageMaxResults: cfg.Detection.PageMaxResults,
		},
		log,
	)

	store, err := storage.New(awsCfg, &storage.Config{
		Backend:   storage.Backend(cfg.Storage.Backend),
		Bucket:    cfg.Upload.Bucket,
		Endpoint:  cfg.AWS.Endpoint,
		Region:    cfg.AWS.Region,
		AccessKey: cfg.AWS.AccessKey,
		SecretKey: cfg.AWS.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
	}, log)
	if err != nil {
		return nil, err
	}

	q, err := queue.NewAsynqQueue(&queue.Config{
		RedisAddr: cfg.Redis.Addr,
		RedisDB:   cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}

	return analyze.NewService(pipeline, store, q, analyze.Config{
		UploadBucket:    cfg.Upload.Bucket,
		URLTTL:          cfg.Upload.URLTTL.Std(),
		DefaultStrategy: models.ExtractionStrategy(cfg.Detection.Strategy),
	}, log), nil
}
