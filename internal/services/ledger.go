package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jeyasuryak/chai-fi/internal/core"
	"github.com/jeyasuryak/chai-fi/internal/store"
)

// EventPublisher emits ledger events to the message broker. A nil publisher
// disables eventing; the ledger still works standalone.
type EventPublisher interface {
	PublishTransactionRecorded(ctx context.Context, transactionID, date string) error
	PublishAggregateStale(ctx context.Context, date, reason string) error
}

// Ledger is the write-side of the subsystem: it records transactions, keeps
// the summary tiers in step and orchestrates period clears.
type Ledger struct {
	store  store.Store
	engine *SummaryEngine
	events EventPublisher
	logger *slog.Logger
}

func NewLedger(st store.Store, engine *SummaryEngine, events EventPublisher, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: st, engine: engine, events: events, logger: logger}
}

// CreateTransaction validates and persists t, then folds it into the summary
// tiers. The transaction record is the source of truth: if a summary update
// fails the transaction is still committed, the failure is logged and an
// aggregate-stale event is published so the worker can recompute.
func (l *Ledger) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.BillerName == "" {
		t.BillerName = core.DefaultBillerName
	}
	if t.Date != "" {
		if d, err := core.ParseDate(t.Date); err == nil {
			if t.DayName == "" {
				t.DayName = core.DayName(d)
			}
		}
	}
	now := time.Now()
	if t.Time == "" {
		t.Time = core.ClockTime(now)
	}
	t.ID = uuid.NewString()
	t.CreatedAt = now

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := l.store.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	if err := l.engine.Apply(ctx, t); err != nil {
		l.logger.Error("transaction saved but summary update failed",
			"transaction_id", t.ID, "date", t.Date, "error", err)
		l.publishStale(ctx, t.Date, "apply failed: "+err.Error())
		return t, nil
	}

	if l.events != nil {
		if err := l.events.PublishTransactionRecorded(ctx, t.ID, t.Date); err != nil {
			l.logger.Warn("publish transaction event failed", "transaction_id", t.ID, "error", err)
		}
	}
	return t, nil
}

func (l *Ledger) publishStale(ctx context.Context, date, reason string) {
	if l.events == nil {
		return
	}
	if err := l.events.PublishAggregateStale(ctx, date, reason); err != nil {
		l.logger.Warn("publish aggregate-stale event failed", "date", date, "error", err)
	}
}

// ClearDay removes every transaction on date and its daily summary, then
// recomputes the containing week and month from what remains.
func (l *Ledger) ClearDay(ctx context.Context, date string) error {
	if _, err := core.ParseDate(date); err != nil {
		return err
	}

	if err := l.store.DeleteTransactionsByDate(ctx, date); err != nil {
		return fmt.Errorf("delete transactions for %s: %w", date, err)
	}
	if err := l.store.DeleteDailySummary(ctx, date); err != nil {
		return fmt.Errorf("delete daily summary for %s: %w", date, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return l.engine.RecomputeWeek(gctx, date) })
	g.Go(func() error { return l.engine.RecomputeMonth(gctx, date) })
	if err := g.Wait(); err != nil {
		l.publishStale(ctx, date, "recompute after day clear failed: "+err.Error())
		return fmt.Errorf("recompute after clearing %s: %w", date, err)
	}
	return nil
}

// ClearWeek removes every transaction and daily summary in the week
// containing date, drops the weekly summary and recomputes the month.
func (l *Ledger) ClearWeek(ctx context.Context, date string) error {
	weekStart, weekEnd, err := core.WeekRange(date)
	if err != nil {
		return err
	}

	if err := l.store.DeleteTransactionsByDateRange(ctx, weekStart, weekEnd); err != nil {
		return fmt.Errorf("delete transactions for week %s: %w", weekStart, err)
	}
	if err := l.store.DeleteDailySummariesInRange(ctx, weekStart, weekEnd); err != nil {
		return fmt.Errorf("delete daily summaries for week %s: %w", weekStart, err)
	}
	if err := l.store.DeleteWeeklySummary(ctx, weekStart); err != nil {
		return fmt.Errorf("delete weekly summary %s: %w", weekStart, err)
	}

	if err := l.engine.RecomputeMonth(ctx, weekStart); err != nil {
		l.publishStale(ctx, weekStart, "recompute after week clear failed: "+err.Error())
		return fmt.Errorf("recompute month after clearing week %s: %w", weekStart, err)
	}
	return nil
}

// ClearMonth removes everything belonging to the month containing date:
// transactions, daily and weekly summaries keyed into it, and the monthly
// summary itself. Nothing above a month exists, so there is no recompute.
func (l *Ledger) ClearMonth(ctx context.Context, date string) error {
	month := core.MonthKey(date)
	if _, err := core.ParseDate(month + "-01"); err != nil {
		return core.ErrInvalidDate
	}

	if err := l.store.DeleteTransactionsByMonth(ctx, month); err != nil {
		return fmt.Errorf("delete transactions for month %s: %w", month, err)
	}
	if err := l.store.DeleteDailySummariesByMonth(ctx, month); err != nil {
		return fmt.Errorf("delete daily summaries for month %s: %w", month, err)
	}
	if err := l.store.DeleteWeeklySummariesByMonth(ctx, month); err != nil {
		return fmt.Errorf("delete weekly summaries for month %s: %w", month, err)
	}
	if err := l.store.DeleteMonthlySummary(ctx, month); err != nil {
		return fmt.Errorf("delete monthly summary %s: %w", month, err)
	}
	return nil
}

// ClearPeriod dispatches a clear request by period name and returns a
// human-readable confirmation.
func (l *Ledger) ClearPeriod(ctx context.Context, period, date string) (string, error) {
	switch period {
	case "day":
		if err := l.ClearDay(ctx, date); err != nil {
			return "", err
		}
		return fmt.Sprintf("cleared all data for %s", date), nil
	case "week":
		if err := l.ClearWeek(ctx, date); err != nil {
			return "", err
		}
		weekStart, weekEnd, _ := core.WeekRange(date)
		return fmt.Sprintf("cleared all data for week %s to %s", weekStart, weekEnd), nil
	case "month":
		if err := l.ClearMonth(ctx, date); err != nil {
			return "", err
		}
		return fmt.Sprintf("cleared all data for month %s", core.MonthKey(date)), nil
	default:
		return "", fmt.Errorf("unknown period %q", period)
	}
}
