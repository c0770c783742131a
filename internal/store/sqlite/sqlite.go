// Package sqlite is the embedded-database Store backend, for single-host
// deployments that want durability without running MongoDB.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jeyasuryak/chai-fi/internal/core"
	"github.com/jeyasuryak/chai-fi/internal/store"
)

type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database file, runs the embedded
// migrations and seeds default users and menu items into an empty database.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureDefaults(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ensureDefaults(ctx context.Context) error {
	for _, u := range store.DefaultUsers() {
		var n int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, u.Username).Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			if err := s.CreateUser(ctx, u); err != nil {
				return err
			}
		}
	}

	var menuCount int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&menuCount); err != nil {
		return err
	}
	if menuCount == 0 {
		for _, item := range store.DefaultMenuItems() {
			if err := s.CreateMenuItem(ctx, item); err != nil {
				return err
			}
		}
	}
	return nil
}

// Users

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	var u core.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u core.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password) VALUES (?, ?, ?)`,
		u.ID, u.Username, u.Password)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Menu items

func (s *Store) GetMenuItems(ctx context.Context) ([]core.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, price, category, image, available FROM menu_items ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select menu items: %w", err)
	}
	defer rows.Close()

	var items []core.MenuItem
	for rows.Next() {
		var item core.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category, &item.Image, &item.Available); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) GetMenuItem(ctx context.Context, id string) (*core.MenuItem, error) {
	var item core.MenuItem
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, price, category, image, available FROM menu_items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category, &item.Image, &item.Available)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select menu item: %w", err)
	}
	return &item, nil
}

func (s *Store) CreateMenuItem(ctx context.Context, item core.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO menu_items (id, name, description, price, category, image, available)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Description, item.Price, item.Category, item.Image, item.Available)
	if err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

func (s *Store) UpdateMenuItem(ctx context.Context, id string, upd core.MenuItemUpdate) (*core.MenuItem, error) {
	existing, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		existing.Name = *upd.Name
	}
	if upd.Description != nil {
		existing.Description = *upd.Description
	}
	if upd.Price != nil {
		existing.Price = *upd.Price
	}
	if upd.Category != nil {
		existing.Category = *upd.Category
	}
	if upd.Image != nil {
		existing.Image = *upd.Image
	}
	if upd.Available != nil {
		existing.Available = *upd.Available
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE menu_items SET name = ?, description = ?, price = ?, category = ?, image = ?, available = ? WHERE id = ?`,
		existing.Name, existing.Description, existing.Price, existing.Category, existing.Image, existing.Available, id)
	if err != nil {
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	return existing, nil
}

func (s *Store) DeleteMenuItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Transactions

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) error {
	items, err := json.Marshal(t.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	split, err := marshalNullable(t.SplitPayment)
	if err != nil {
		return fmt.Errorf("marshal split payment: %w", err)
	}
	creditor, err := marshalNullable(t.Creditor)
	if err != nil {
		return fmt.Errorf("marshal creditor: %w", err)
	}
	extras, err := marshalNullable(t.Extras)
	if err != nil {
		return fmt.Errorf("marshal extras: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transactions
		 (id, items, total_amount, payment_method, biller_name, split_payment, creditor, extras, date, day_name, time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(items), t.TotalAmount, string(t.PaymentMethod), t.BillerName,
		split, creditor, extras, t.Date, t.DayName, t.Time, t.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

const transactionColumns = `id, items, total_amount, payment_method, biller_name, split_payment, creditor, extras, date, day_name, time, created_at`

func (s *Store) GetTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	q := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryTransactions(ctx, q, args...)
}

func (s *Store) GetTransactionsByDate(ctx context.Context, date string) ([]core.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE date = ? ORDER BY created_at DESC`, date)
}

func (s *Store) GetTransactionsByDateRange(ctx context.Context, start, end string) ([]core.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE date >= ? AND date <= ? ORDER BY created_at DESC`, start, end)
}

func (s *Store) queryTransactions(ctx context.Context, q string, args ...any) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var (
			t                       core.Transaction
			items                   string
			split, creditor, extras sql.NullString
			createdAt               string
		)
		if err := rows.Scan(&t.ID, &items, &t.TotalAmount, &t.PaymentMethod, &t.BillerName,
			&split, &creditor, &extras, &t.Date, &t.DayName, &t.Time, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if err := json.Unmarshal([]byte(items), &t.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
		if split.Valid {
			if err := json.Unmarshal([]byte(split.String), &t.SplitPayment); err != nil {
				return nil, fmt.Errorf("unmarshal split payment: %w", err)
			}
		}
		if creditor.Valid {
			if err := json.Unmarshal([]byte(creditor.String), &t.Creditor); err != nil {
				return nil, fmt.Errorf("unmarshal creditor: %w", err)
			}
		}
		if extras.Valid {
			if err := json.Unmarshal([]byte(extras.String), &t.Extras); err != nil {
				return nil, fmt.Errorf("unmarshal extras: %w", err)
			}
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			t.CreatedAt = ts
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (s *Store) DeleteTransactionsByDate(ctx context.Context, date string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE date = ?`, date)
	if err != nil {
		return fmt.Errorf("delete transactions by date: %w", err)
	}
	return nil
}

func (s *Store) DeleteTransactionsByDateRange(ctx context.Context, start, end string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE date >= ? AND date <= ?`, start, end)
	if err != nil {
		return fmt.Errorf("delete transactions by range: %w", err)
	}
	return nil
}

func (s *Store) DeleteTransactionsByMonth(ctx context.Context, month string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE date LIKE ?`, month+"%")
	if err != nil {
		return fmt.Errorf("delete transactions by month: %w", err)
	}
	return nil
}

// Daily summaries

func (s *Store) GetDailySummary(ctx context.Context, date string) (*core.DailySummary, error) {
	var (
		sum       core.DailySummary
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, date, total_amount, gpay_amount, cash_amount, order_count, created_at
		 FROM daily_summaries WHERE date = ?`, date,
	).Scan(&sum.ID, &sum.Date, &sum.TotalAmount, &sum.GpayAmount, &sum.CashAmount, &sum.OrderCount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select daily summary: %w", err)
	}
	sum.CreatedAt = parseTime(createdAt)
	return &sum, nil
}

func (s *Store) GetDailySummaries(ctx context.Context, limit int) ([]core.DailySummary, error) {
	q := `SELECT id, date, total_amount, gpay_amount, cash_amount, order_count, created_at
	      FROM daily_summaries ORDER BY date DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select daily summaries: %w", err)
	}
	defer rows.Close()

	var sums []core.DailySummary
	for rows.Next() {
		var (
			sum       core.DailySummary
			createdAt string
		)
		if err := rows.Scan(&sum.ID, &sum.Date, &sum.TotalAmount, &sum.GpayAmount, &sum.CashAmount, &sum.OrderCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan daily summary: %w", err)
		}
		sum.CreatedAt = parseTime(createdAt)
		sums = append(sums, sum)
	}
	return sums, rows.Err()
}

func (s *Store) PutDailySummary(ctx context.Context, sum core.DailySummary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_summaries (id, date, total_amount, gpay_amount, cash_amount, order_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
		   total_amount = excluded.total_amount,
		   gpay_amount = excluded.gpay_amount,
		   cash_amount = excluded.cash_amount,
		   order_count = excluded.order_count`,
		uuid.NewString(), sum.Date, sum.TotalAmount, sum.GpayAmount, sum.CashAmount, sum.OrderCount,
		time.Now().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert daily summary: %w", err)
	}
	return nil
}

func (s *Store) DeleteDailySummary(ctx context.Context, date string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM daily_summaries WHERE date = ?`, date)
	if err != nil {
		return fmt.Errorf("delete daily summary: %w", err)
	}
	return nil
}

func (s *Store) DeleteDailySummariesInRange(ctx context.Context, start, end string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM daily_summaries WHERE date >= ? AND date <= ?`, start, end)
	if err != nil {
		return fmt.Errorf("delete daily summaries in range: %w", err)
	}
	return nil
}

func (s *Store) DeleteDailySummariesByMonth(ctx context.Context, month string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM daily_summaries WHERE date LIKE ?`, month+"%")
	if err != nil {
		return fmt.Errorf("delete daily summaries by month: %w", err)
	}
	return nil
}

// Weekly summaries

func (s *Store) GetWeeklySummary(ctx context.Context, weekStart string) (*core.WeeklySummary, error) {
	var (
		sum       core.WeeklySummary
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, week_start, week_end, total_amount, gpay_amount, cash_amount, order_count, created_at
		 FROM weekly_summaries WHERE week_start = ?`, weekStart,
	).Scan(&sum.ID, &sum.WeekStart, &sum.WeekEnd, &sum.TotalAmount, &sum.GpayAmount, &sum.CashAmount, &sum.OrderCount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select weekly summary: %w", err)
	}
	sum.CreatedAt = parseTime(createdAt)
	return &sum, nil
}

func (s *Store) GetWeeklySummaries(ctx context.Context, limit int) ([]core.WeeklySummary, error) {
	q := `SELECT id, week_start, week_end, total_amount, gpay_amount, cash_amount, order_count, created_at
	      FROM weekly_summaries ORDER BY week_start DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select weekly summaries: %w", err)
	}
	defer rows.Close()

	var sums []core.WeeklySummary
	for rows.Next() {
		var (
			sum       core.WeeklySummary
			createdAt string
		)
		if err := rows.Scan(&sum.ID, &sum.WeekStart, &sum.WeekEnd, &sum.TotalAmount, &sum.GpayAmount, &sum.CashAmount, &sum.OrderCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan weekly summary: %w", err)
		}
		sum.CreatedAt = parseTime(createdAt)
		sums = append(sums, sum)
	}
	return sums, rows.Err()
}

func (s *Store) PutWeeklySummary(ctx context.Context, sum core.WeeklySummary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weekly_summaries (id, week_start, week_end, total_amount, gpay_amount, cash_amount, order_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(week_start) DO UPDATE SET
		   week_end = excluded.week_end,
		   total_amount = excluded.total_amount,
		   gpay_amount = excluded.gpay_amount,
		   cash_amount = excluded.cash_amount,
		   order_count = excluded.order_count`,
		uuid.NewString(), sum.WeekStart, sum.WeekEnd, sum.TotalAmount, sum.GpayAmount, sum.CashAmount, sum.OrderCount,
		time.Now().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert weekly summary: %w", err)
	}
	return nil
}

func (s *Store) DeleteWeeklySummary(ctx context.Context, weekStart string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM weekly_summaries WHERE week_start = ?`, weekStart)
	if err != nil {
		return fmt.Errorf("delete weekly summary: %w", err)
	}
	return nil
}

func (s *Store) DeleteWeeklySummariesByMonth(ctx context.Context, month string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM weekly_summaries WHERE week_start LIKE ?`, month+"%")
	if err != nil {
		return fmt.Errorf("delete weekly summaries by month: %w", err)
	}
	return nil
}

// Monthly summaries

func (s *Store) GetMonthlySummary(ctx context.Context, month string) (*core.MonthlySummary, error) {
	var (
		sum       core.MonthlySummary
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, month, total_amount, gpay_amount, cash_amount, order_count, created_at
		 FROM monthly_summaries WHERE month = ?`, month,
	).Scan(&sum.ID, &sum.Month, &sum.TotalAmount, &sum.GpayAmount, &sum.CashAmount, &sum.OrderCount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select monthly summary: %w", err)
	}
	sum.CreatedAt = parseTime(createdAt)
	return &sum, nil
}

func (s *Store) GetMonthlySummaries(ctx context.Context, limit int) ([]core.MonthlySummary, error) {
	q := `SELECT id, month, total_amount, gpay_amount, cash_amount, order_count, created_at
	      FROM monthly_summaries ORDER BY month DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select monthly summaries: %w", err)
	}
	defer rows.Close()

	var sums []core.MonthlySummary
	for rows.Next() {
		var (
			sum       core.MonthlySummary
			createdAt string
		)
		if err := rows.Scan(&sum.ID, &sum.Month, &sum.TotalAmount, &sum.GpayAmount, &sum.CashAmount, &sum.OrderCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan monthly summary: %w", err)
		}
		sum.CreatedAt = parseTime(createdAt)
		sums = append(sums, sum)
	}
	return sums, rows.Err()
}

func (s *Store) PutMonthlySummary(ctx context.Context, sum core.MonthlySummary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO monthly_summaries (id, month, total_amount, gpay_amount, cash_amount, order_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(month) DO UPDATE SET
		   total_amount = excluded.total_amount,
		   gpay_amount = excluded.gpay_amount,
		   cash_amount = excluded.cash_amount,
		   order_count = excluded.order_count`,
		uuid.NewString(), sum.Month, sum.TotalAmount, sum.GpayAmount, sum.CashAmount, sum.OrderCount,
		time.Now().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert monthly summary: %w", err)
	}
	return nil
}

func (s *Store) DeleteMonthlySummary(ctx context.Context, month string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM monthly_summaries WHERE month = ?`, month)
	if err != nil {
		return fmt.Errorf("delete monthly summary: %w", err)
	}
	return nil
}

func marshalNullable(v any) (sql.NullString, error) {
	switch x := v.(type) {
	case *core.SplitPayment:
		if x == nil {
			return sql.NullString{}, nil
		}
	case *core.Creditor:
		if x == nil {
			return sql.NullString{}, nil
		}
	case []core.Extra:
		if x == nil {
			return sql.NullString{}, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
