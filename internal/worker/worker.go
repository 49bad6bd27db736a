package worker

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/flightsearch/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type FlightCacheInvalidator interface {
	InvalidateFlights(ctx context.Context) error
}

type CacheWarmer interface {
	RefreshCache(ctx context.Context) (int, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, event kafka.CatalogEvent) error
}

// Consumer is satisfied by *kafka.Consumer.
type Consumer interface {
	Consume(ctx context.Context, handler func(context.Context, kafkago.Message) error) error
}

// Worker keeps the shared flight cache in step with catalog changes made by any
// API replica and records every change in the audit log.
type Worker struct {
	cache    FlightCacheInvalidator
	warmer   CacheWarmer
	recorder AuditRecorder
	logger   *zap.SugaredLogger
}

func New(cache FlightCacheInvalidator, warmer CacheWarmer, recorder AuditRecorder, logger *zap.SugaredLogger) *Worker {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Worker{cache: cache, warmer: warmer, recorder: recorder, logger: logger}
}

// HandleEvent audits the change and drops the cached flight list after flight writes.
// A failed invalidation is logged only; the cache TTL bounds the staleness.
func (w *Worker) HandleEvent(ctx context.Context, event kafka.CatalogEvent) error {
	if err := w.recorder.Record(ctx, event); err != nil {
		return err
	}
	if !event.IsFlightEvent() {
		return nil
	}
	if err := w.cache.InvalidateFlights(ctx); err != nil {
		w.logger.Warnw("flight cache invalidation failed", "event", string(event.Type), "entity_id", event.EntityID, "error", err)
	}
	return nil
}

func (w *Worker) Warm(ctx context.Context) {
	n, err := w.warmer.RefreshCache(ctx)
	if err != nil {
		w.logger.Errorw("flight cache warm failed", "error", err)
		return
	}
	w.logger.Infow("flight cache warmed", "flights", n)
}

// Run consumes catalog events and re-warms the flight cache every interval until ctx ends.
func (w *Worker) Run(ctx context.Context, consumer Consumer, interval time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := consumer.Consume(gctx, kafka.CatalogHandler(w.logger, w.HandleEvent))
		if errors.Is(err, context.Canceled) || gctx.Err() != nil {
			return nil
		}
		return err
	})

	g.Go(func() error {
		w.Warm(gctx)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.Warm(gctx)
			case <-gctx.Done():
				return nil
			}
		}
	})

	return g.Wait()
}
