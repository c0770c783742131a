// Package memory is the in-memory Store backend: keyed maps guarded by a
// mutex, process-lifetime only, reseeded with default users and menu items
// on construction. It is also the fallback when MongoDB is unreachable.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeyasuryak/chai-fi/internal/core"
	"github.com/jeyasuryak/chai-fi/internal/store"
)

type Store struct {
	mu               sync.Mutex
	users            map[string]core.User        // keyed by id
	menuItems        map[string]core.MenuItem    // keyed by id
	transactions     map[string]core.Transaction // keyed by id
	dailySummaries   map[string]core.DailySummary
	weeklySummaries  map[string]core.WeeklySummary
	monthlySummaries map[string]core.MonthlySummary
}

// New returns a store seeded with the default users and menu items.
func New() *Store {
	s := &Store{
		users:            make(map[string]core.User),
		menuItems:        make(map[string]core.MenuItem),
		transactions:     make(map[string]core.Transaction),
		dailySummaries:   make(map[string]core.DailySummary),
		weeklySummaries:  make(map[string]core.WeeklySummary),
		monthlySummaries: make(map[string]core.MonthlySummary),
	}
	ctx := context.Background()
	for _, u := range store.DefaultUsers() {
		_ = s.CreateUser(ctx, u)
	}
	for _, item := range store.DefaultMenuItems() {
		_ = s.CreateMenuItem(ctx, item)
	}
	return s
}

func (s *Store) Close() error { return nil }

// Users

func (s *Store) GetUserByUsername(_ context.Context, username string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[u.ID] = u
	return nil
}

// Menu items

func (s *Store) GetMenuItems(_ context.Context) ([]core.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]core.MenuItem, 0, len(s.menuItems))
	for _, item := range s.menuItems {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *Store) GetMenuItem(_ context.Context, id string) (*core.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.menuItems[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &item, nil
}

func (s *Store) CreateMenuItem(_ context.Context, item core.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	s.menuItems[item.ID] = item
	return nil
}

func (s *Store) UpdateMenuItem(_ context.Context, id string, upd core.MenuItemUpdate) (*core.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.menuItems[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Price != nil {
		item.Price = *upd.Price
	}
	if upd.Category != nil {
		item.Category = *upd.Category
	}
	if upd.Image != nil {
		item.Image = *upd.Image
	}
	if upd.Available != nil {
		item.Available = *upd.Available
	}
	s.menuItems[id] = item
	return &item, nil
}

func (s *Store) DeleteMenuItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.menuItems[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.menuItems, id)
	return nil
}

// Transactions

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[t.ID] = t
	return nil
}

func (s *Store) GetTransactions(_ context.Context, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectTransactions(limit, func(core.Transaction) bool { return true }), nil
}

func (s *Store) GetTransactionsByDate(_ context.Context, date string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectTransactions(0, func(t core.Transaction) bool { return t.Date == date }), nil
}

func (s *Store) GetTransactionsByDateRange(_ context.Context, start, end string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectTransactions(0, func(t core.Transaction) bool {
		return t.Date >= start && t.Date <= end
	}), nil
}

// collectTransactions must be called with the mutex held. Results are sorted
// newest first by creation time.
func (s *Store) collectTransactions(limit int, keep func(core.Transaction) bool) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, t := range s.transactions {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Store) DeleteTransactionsByDate(_ context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.transactions {
		if t.Date == date {
			delete(s.transactions, id)
		}
	}
	return nil
}

func (s *Store) DeleteTransactionsByDateRange(_ context.Context, start, end string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.transactions {
		if t.Date >= start && t.Date <= end {
			delete(s.transactions, id)
		}
	}
	return nil
}

func (s *Store) DeleteTransactionsByMonth(_ context.Context, month string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.transactions {
		if strings.HasPrefix(t.Date, month) {
			delete(s.transactions, id)
		}
	}
	return nil
}

// Daily summaries

func (s *Store) GetDailySummary(_ context.Context, date string) (*core.DailySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, ok := s.dailySummaries[date]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &sum, nil
}

func (s *Store) GetDailySummaries(_ context.Context, limit int) ([]core.DailySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.DailySummary, 0, len(s.dailySummaries))
	for _, sum := range s.dailySummaries {
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) PutDailySummary(_ context.Context, sum core.DailySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.dailySummaries[sum.Date]; ok {
		sum.ID = prev.ID
		sum.CreatedAt = prev.CreatedAt
	} else {
		sum.ID = uuid.NewString()
		sum.CreatedAt = time.Now()
	}
	s.dailySummaries[sum.Date] = sum
	return nil
}

func (s *Store) DeleteDailySummary(_ context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dailySummaries, date)
	return nil
}

func (s *Store) DeleteDailySummariesInRange(_ context.Context, start, end string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for date := range s.dailySummaries {
		if date >= start && date <= end {
			delete(s.dailySummaries, date)
		}
	}
	return nil
}

func (s *Store) DeleteDailySummariesByMonth(_ context.Context, month string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for date := range s.dailySummaries {
		if strings.HasPrefix(date, month) {
			delete(s.dailySummaries, date)
		}
	}
	return nil
}

// Weekly summaries

func (s *Store) GetWeeklySummary(_ context.Context, weekStart string) (*core.WeeklySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, ok := s.weeklySummaries[weekStart]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &sum, nil
}

func (s *Store) GetWeeklySummaries(_ context.Context, limit int) ([]core.WeeklySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.WeeklySummary, 0, len(s.weeklySummaries))
	for _, sum := range s.weeklySummaries {
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart > out[j].WeekStart })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) PutWeeklySummary(_ context.Context, sum core.WeeklySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.weeklySummaries[sum.WeekStart]; ok {
		sum.ID = prev.ID
		sum.CreatedAt = prev.CreatedAt
	} else {
		sum.ID = uuid.NewString()
		sum.CreatedAt = time.Now()
	}
	s.weeklySummaries[sum.WeekStart] = sum
	return nil
}

func (s *Store) DeleteWeeklySummary(_ context.Context, weekStart string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.weeklySummaries, weekStart)
	return nil
}

func (s *Store) DeleteWeeklySummariesByMonth(_ context.Context, month string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for weekStart := range s.weeklySummaries {
		if strings.HasPrefix(weekStart, month) {
			delete(s.weeklySummaries, weekStart)
		}
	}
	return nil
}

// Monthly summaries

func (s *Store) GetMonthlySummary(_ context.Context, month string) (*core.MonthlySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, ok := s.monthlySummaries[month]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &sum, nil
}

func (s *Store) GetMonthlySummaries(_ context.Context, limit int) ([]core.MonthlySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.MonthlySummary, 0, len(s.monthlySummaries))
	for _, sum := range s.monthlySummaries {
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) PutMonthlySummary(_ context.Context, sum core.MonthlySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.monthlySummaries[sum.Month]; ok {
		sum.ID = prev.ID
		sum.CreatedAt = prev.CreatedAt
	} else {
		sum.ID = uuid.NewString()
		sum.CreatedAt = time.Now()
	}
	s.monthlySummaries[sum.Month] = sum
	return nil
}

func (s *Store) DeleteMonthlySummary(_ context.Context, month string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.monthlySummaries, month)
	return nil
}
