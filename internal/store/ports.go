// Package store defines the capability interfaces the ledger core depends
// on, plus the factory that selects and opens one of the interchangeable
// backends (memory, mongo, sqlite).
package store

import (
	"context"
	"errors"

	"github.com/jeyasuryak/chai-fi/internal/core"
)

// ErrNotFound is returned when a record or summary row is absent. Backends
// map their driver-specific sentinel (mongo.ErrNoDocuments, sql.ErrNoRows)
// to this error.
var ErrNotFound = errors.New("not found")

type (
	// TransactionStore persists immutable sale records.
	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) error
		GetTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
		GetTransactionsByDate(ctx context.Context, date string) ([]core.Transaction, error)
		GetTransactionsByDateRange(ctx context.Context, start, end string) ([]core.Transaction, error)
		DeleteTransactionsByDate(ctx context.Context, date string) error
		DeleteTransactionsByDateRange(ctx context.Context, start, end string) error
		DeleteTransactionsByMonth(ctx context.Context, month string) error
	}

	// SummaryStore persists the three summary tiers. Each tier is keyed
	// uniquely by its period key; Put* upserts on that key. Gets return
	// ErrNotFound for absent rows, and list operations return the most
	// recent period first.
	SummaryStore interface {
		GetDailySummary(ctx context.Context, date string) (*core.DailySummary, error)
		GetDailySummaries(ctx context.Context, limit int) ([]core.DailySummary, error)
		PutDailySummary(ctx context.Context, s core.DailySummary) error
		DeleteDailySummary(ctx context.Context, date string) error
		DeleteDailySummariesInRange(ctx context.Context, start, end string) error
		DeleteDailySummariesByMonth(ctx context.Context, month string) error

		GetWeeklySummary(ctx context.Context, weekStart string) (*core.WeeklySummary, error)
		GetWeeklySummaries(ctx context.Context, limit int) ([]core.WeeklySummary, error)
		PutWeeklySummary(ctx context.Context, s core.WeeklySummary) error
		DeleteWeeklySummary(ctx context.Context, weekStart string) error
		DeleteWeeklySummariesByMonth(ctx context.Context, month string) error

		GetMonthlySummary(ctx context.Context, month string) (*core.MonthlySummary, error)
		GetMonthlySummaries(ctx context.Context, limit int) ([]core.MonthlySummary, error)
		PutMonthlySummary(ctx context.Context, s core.MonthlySummary) error
		DeleteMonthlySummary(ctx context.Context, month string) error
	}

	// MenuStore manages the sellable menu items.
	MenuStore interface {
		GetMenuItems(ctx context.Context) ([]core.MenuItem, error)
		GetMenuItem(ctx context.Context, id string) (*core.MenuItem, error)
		CreateMenuItem(ctx context.Context, item core.MenuItem) error
		UpdateMenuItem(ctx context.Context, id string, upd core.MenuItemUpdate) (*core.MenuItem, error)
		DeleteMenuItem(ctx context.Context, id string) error
	}

	// UserStore holds login accounts. Usernames are unique.
	UserStore interface {
		GetUserByUsername(ctx context.Context, username string) (*core.User, error)
		CreateUser(ctx context.Context, u core.User) error
	}

	// Store is the full backend contract. All implementations provide
	// read-after-write consistency within a single process.
	Store interface {
		TransactionStore
		SummaryStore
		MenuStore
		UserStore
		Close() error
	}
)
