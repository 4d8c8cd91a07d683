package observability

import (
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that log every expansion event.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnExpand: func(e *domain.ExpansionEvent) {
			logger.Info("container_expanded",
				"path", e.Path,
				"type", e.NodeType,
				"from_source", e.FromSource,
				"synthesized", e.Synthesized,
				"size", e.Size,
			)
		},
		OnEmpty: func(e *domain.ExpansionEvent) {
			logger.Info("container_empty", "path", e.Path, "type", e.NodeType)
		},
		OnSizeDecided: func(e *domain.ExpansionEvent) {
			logger.Debug("size_decided", "path", e.Path, "size", e.Size)
		},
		OnError: func(e *domain.ExpansionEvent) {
			logger.Error("expansion_failed", "path", e.Path, "type", e.NodeType, "error", e.Error)
		},
	}
}
