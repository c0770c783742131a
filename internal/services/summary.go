// Package services holds the ledger core: transaction ingestion, the
// rolling summary engine and the on-demand read-models.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jeyasuryak/chai-fi/internal/core"
	"github.com/jeyasuryak/chai-fi/internal/store"
)

// keyedMutex serializes read-modify-write cycles per period key. Two
// concurrent transactions on the same date update the same summary rows; a
// plain read-add-write would lose one of the increments.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// SummaryEngine maintains the daily, weekly and monthly summary tiers. Each
// tier is an independently kept running sum seeded from transactions; on
// recomputation every tier is rebuilt from the raw transaction set.
type SummaryEngine struct {
	txs   store.TransactionStore
	sums  store.SummaryStore
	locks keyedMutex
}

func NewSummaryEngine(txs store.TransactionStore, sums store.SummaryStore) *SummaryEngine {
	return &SummaryEngine{
		txs:   txs,
		sums:  sums,
		locks: keyedMutex{locks: make(map[string]*sync.Mutex)},
	}
}

// Apply folds one transaction into all three summary tiers. The three
// period updates share one logical operation but are not atomic across
// tiers: a failed tier is reported and the others still run, since
// recomputation from transactions is always available as the recovery path.
func (e *SummaryEngine) Apply(ctx context.Context, t core.Transaction) error {
	total := core.ParseAmountLenient(t.TotalAmount)
	gpay, cash := t.Contribution()

	weekStart, weekEnd, err := core.WeekRange(t.Date)
	if err != nil {
		return fmt.Errorf("week range for %q: %w", t.Date, err)
	}
	month := core.MonthKey(t.Date)

	var errs []error
	if err := e.applyDaily(ctx, t.Date, total, gpay, cash); err != nil {
		errs = append(errs, fmt.Errorf("daily summary: %w", err))
	}
	if err := e.applyWeekly(ctx, weekStart, weekEnd, total, gpay, cash); err != nil {
		errs = append(errs, fmt.Errorf("weekly summary: %w", err))
	}
	if err := e.applyMonthly(ctx, month, total, gpay, cash); err != nil {
		errs = append(errs, fmt.Errorf("monthly summary: %w", err))
	}
	return errors.Join(errs...)
}

func (e *SummaryEngine) applyDaily(ctx context.Context, date string, total, gpay, cash decimal.Decimal) error {
	unlock := e.locks.lock("day:" + date)
	defer unlock()

	existing, err := e.sums.GetDailySummary(ctx, date)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	sum := core.DailySummary{Date: date, OrderCount: 1}
	if existing != nil {
		sum.OrderCount = existing.OrderCount + 1
		total = total.Add(core.ParseAmountLenient(existing.TotalAmount))
		gpay = gpay.Add(core.ParseAmountLenient(existing.GpayAmount))
		cash = cash.Add(core.ParseAmountLenient(existing.CashAmount))
	}
	sum.TotalAmount = core.FormatAmount(total)
	sum.GpayAmount = core.FormatAmount(gpay)
	sum.CashAmount = core.FormatAmount(cash)

	return e.sums.PutDailySummary(ctx, sum)
}

func (e *SummaryEngine) applyWeekly(ctx context.Context, weekStart, weekEnd string, total, gpay, cash decimal.Decimal) error {
	unlock := e.locks.lock("week:" + weekStart)
	defer unlock()

	existing, err := e.sums.GetWeeklySummary(ctx, weekStart)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	sum := core.WeeklySummary{WeekStart: weekStart, WeekEnd: weekEnd, OrderCount: 1}
	if existing != nil {
		sum.OrderCount = existing.OrderCount + 1
		total = total.Add(core.ParseAmountLenient(existing.TotalAmount))
		gpay = gpay.Add(core.ParseAmountLenient(existing.GpayAmount))
		cash = cash.Add(core.ParseAmountLenient(existing.CashAmount))
	}
	sum.TotalAmount = core.FormatAmount(total)
	sum.GpayAmount = core.FormatAmount(gpay)
	sum.CashAmount = core.FormatAmount(cash)

	return e.sums.PutWeeklySummary(ctx, sum)
}

func (e *SummaryEngine) applyMonthly(ctx context.Context, month string, total, gpay, cash decimal.Decimal) error {
	unlock := e.locks.lock("month:" + month)
	defer unlock()

	existing, err := e.sums.GetMonthlySummary(ctx, month)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	sum := core.MonthlySummary{Month: month, OrderCount: 1}
	if existing != nil {
		sum.OrderCount = existing.OrderCount + 1
		total = total.Add(core.ParseAmountLenient(existing.TotalAmount))
		gpay = gpay.Add(core.ParseAmountLenient(existing.GpayAmount))
		cash = cash.Add(core.ParseAmountLenient(existing.CashAmount))
	}
	sum.TotalAmount = core.FormatAmount(total)
	sum.GpayAmount = core.FormatAmount(gpay)
	sum.CashAmount = core.FormatAmount(cash)

	return e.sums.PutMonthlySummary(ctx, sum)
}

// aggregate rebuilds the four summary columns from a transaction set, using
// the same contribution rules as the incremental path so split payments keep
// their attribution across recomputes.
func aggregate(txs []core.Transaction) (total, gpay, cash decimal.Decimal, count int) {
	for _, t := range txs {
		total = total.Add(core.ParseAmountLenient(t.TotalAmount))
		g, c := t.Contribution()
		gpay = gpay.Add(g)
		cash = cash.Add(c)
	}
	return total, gpay, cash, len(txs)
}

// RecomputeDay rebuilds the daily summary for date from its transactions.
// An empty period deletes the row: absence means "no data", not zero.
func (e *SummaryEngine) RecomputeDay(ctx context.Context, date string) error {
	unlock := e.locks.lock("day:" + date)
	defer unlock()

	txs, err := e.txs.GetTransactionsByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("load transactions for %s: %w", date, err)
	}
	if len(txs) == 0 {
		return e.sums.DeleteDailySummary(ctx, date)
	}

	total, gpay, cash, count := aggregate(txs)
	return e.sums.PutDailySummary(ctx, core.DailySummary{
		Date:        date,
		TotalAmount: core.FormatAmount(total),
		GpayAmount:  core.FormatAmount(gpay),
		CashAmount:  core.FormatAmount(cash),
		OrderCount:  count,
	})
}

// RecomputeWeek rebuilds the weekly summary for the week containing date.
func (e *SummaryEngine) RecomputeWeek(ctx context.Context, date string) error {
	weekStart, weekEnd, err := core.WeekRange(date)
	if err != nil {
		return err
	}

	unlock := e.locks.lock("week:" + weekStart)
	defer unlock()

	txs, err := e.txs.GetTransactionsByDateRange(ctx, weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("load transactions for week %s: %w", weekStart, err)
	}
	if len(txs) == 0 {
		return e.sums.DeleteWeeklySummary(ctx, weekStart)
	}

	total, gpay, cash, count := aggregate(txs)
	return e.sums.PutWeeklySummary(ctx, core.WeeklySummary{
		WeekStart:   weekStart,
		WeekEnd:     weekEnd,
		TotalAmount: core.FormatAmount(total),
		GpayAmount:  core.FormatAmount(gpay),
		CashAmount:  core.FormatAmount(cash),
		OrderCount:  count,
	})
}

// RecomputeMonth rebuilds the monthly summary for the month containing date.
func (e *SummaryEngine) RecomputeMonth(ctx context.Context, date string) error {
	month := core.MonthKey(date)

	unlock := e.locks.lock("month:" + month)
	defer unlock()

	start, end := core.MonthRange(month)
	txs, err := e.txs.GetTransactionsByDateRange(ctx, start, end)
	if err != nil {
		return fmt.Errorf("load transactions for month %s: %w", month, err)
	}
	if len(txs) == 0 {
		return e.sums.DeleteMonthlySummary(ctx, month)
	}

	total, gpay, cash, count := aggregate(txs)
	return e.sums.PutMonthlySummary(ctx, core.MonthlySummary{
		Month:       month,
		TotalAmount: core.FormatAmount(total),
		GpayAmount:  core.FormatAmount(gpay),
		CashAmount:  core.FormatAmount(cash),
		OrderCount:  count,
	})
}

// RecomputeAll rebuilds every tier containing date. Used by the recompute
// worker after an aggregate-stale event.
func (e *SummaryEngine) RecomputeAll(ctx context.Context, date string) error {
	if err := e.RecomputeDay(ctx, date); err != nil {
		return err
	}
	if err := e.RecomputeWeek(ctx, date); err != nil {
		return err
	}
	return e.RecomputeMonth(ctx, date)
}
