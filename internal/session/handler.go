package session

import (
	"context"

	"github.com/MKhiriev/go-dbx-delta/internal/logger"
	"github.com/MKhiriev/go-dbx-delta/models"
)

// LogHandler writes every change to the log at info level.
type LogHandler struct {
	logger *logger.Logger
}

func NewLogHandler(log *logger.Logger) *LogHandler {
	return &LogHandler{logger: log}
}

func (h *LogHandler) HandleReset(_ context.Context, pathPrefix string) error {
	h.logger.Info().Str("path_prefix", pathPrefix).Msg("reset: local state discarded")
	return nil
}

func (h *LogHandler) HandleEntries(_ context.Context, pathPrefix string, entries []models.DeltaEntry) error {
	for _, e := range entries {
		ev := h.logger.Info().Str("path_prefix", pathPrefix).Str("path", e.Path)
		if e.Deleted() {
			ev.Msg("deleted")
			continue
		}
		ev.Bool("is_dir", e.Metadata.IsDir).
			Int64("bytes", e.Metadata.Bytes).
			Str("rev", e.Metadata.Rev).
			Msg("changed")
	}
	return nil
}
