package handlers

import (
	"github.com/getmarco/medtextanalyze/internal/service/analyze"
	"github.com/getmarco/medtextanalyze/pkg/logger"
)

// Handlers groups the API handlers for route registration.
type Handlers struct {
	Analyze *AnalyzeHandler
}

// NewHandlers wires the handlers.
func NewHandlers(service analyze.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Analyze: NewAnalyzeHandler(service, log),
	}
}
