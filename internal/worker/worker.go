// Package worker heals summary drift: it consumes aggregate-stale events and
// periodically recomputes the current day so the tiers converge on the
// transaction record.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jeyasuryak/chai-fi/internal/amqp"
	"github.com/jeyasuryak/chai-fi/internal/core"
	"github.com/jeyasuryak/chai-fi/internal/services"
)

type RecomputeWorker struct {
	engine *services.SummaryEngine
	logger *slog.Logger
}

func NewRecomputeWorker(engine *services.SummaryEngine, logger *slog.Logger) *RecomputeWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecomputeWorker{engine: engine, logger: logger}
}

// HandleEvent processes one ledger event. Only aggregate-stale events carry
// work; transaction-recorded events are acknowledged as-is since the server
// already applied them.
func (w *RecomputeWorker) HandleEvent(ctx context.Context, msg *amqp.EventMessage) error {
	switch msg.Type {
	case amqp.EventAggregateStale:
		w.logger.Info("Recomputing stale aggregates", "date", msg.Date, "reason", msg.Reason)
		if err := w.engine.RecomputeAll(ctx, msg.Date); err != nil {
			return fmt.Errorf("recompute aggregates for %s: %w", msg.Date, err)
		}
		return nil
	case amqp.EventTransactionRecorded:
		return nil
	default:
		w.logger.Warn("Ignoring unknown event type", "type", msg.Type)
		return nil
	}
}

// RecomputeToday rebuilds the tiers containing the current date. Run on a
// ticker as a safety net for events lost while the broker was down.
func (w *RecomputeWorker) RecomputeToday(ctx context.Context) error {
	date := time.Now().Format(core.DateLayout)
	if err := w.engine.RecomputeAll(ctx, date); err != nil {
		return fmt.Errorf("periodic recompute for %s: %w", date, err)
	}
	return nil
}
