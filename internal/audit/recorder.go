package audit

import (
	"context"

	"github.com/Domenick1991/flightsearch/internal/kafka"
	"go.uber.org/zap"
)

// Recorder writes catalog changes to the audit log stream.
type Recorder struct {
	logger *zap.SugaredLogger
}

func NewRecorder(logger *zap.SugaredLogger) *Recorder {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Recorder{logger: logger.Named("audit")}
}

func (r *Recorder) Record(_ context.Context, event kafka.CatalogEvent) error {
	r.logger.Infow("catalog change",
		"event", string(event.Type),
		"entity_id", event.EntityID,
		"airlines", event.AirlineCodes,
		"actor_id", event.ActorID,
		"occurred_at", event.OccurredAt,
	)
	return nil
}
