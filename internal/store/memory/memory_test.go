package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jeyasuryak/chai-fi/internal/core"
	"github.com/jeyasuryak/chai-fi/internal/store"
)

func TestNewSeedsDefaults(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, username := range []string{"Inowara", "Chai-fi"} {
		u, err := s.GetUserByUsername(ctx, username)
		if err != nil {
			t.Errorf("default user %s missing: %v", username, err)
			continue
		}
		if u.Password == "" {
			t.Errorf("default user %s has no password", username)
		}
	}

	items, err := s.GetMenuItems(ctx)
	if err != nil {
		t.Fatalf("menu items: %v", err)
	}
	if len(items) != 8 {
		t.Errorf("got %d default menu items, want 8", len(items))
	}
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	s := New()
	if _, err := s.GetUserByUsername(context.Background(), "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func tx(id, date string, createdAt time.Time) core.Transaction {
	return core.Transaction{
		ID:            id,
		Items:         []core.TransactionItem{{ID: "1", Name: "Ginger Tea", Price: 15, Quantity: 1}},
		TotalAmount:   "15.00",
		PaymentMethod: core.PaymentCash,
		Date:          date,
		CreatedAt:     createdAt,
	}
}

func TestTransactionOrderingAndLimit(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		if err := s.CreateTransaction(ctx, tx(id, "2024-01-03", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	all, err := s.GetTransactions(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Errorf("expected newest-first ordering c,b,a, got %v", ids(all))
	}

	limited, err := s.GetTransactions(ctx, 2)
	if err != nil {
		t.Fatalf("limited list: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "c" {
		t.Errorf("limit 2 should keep the newest two, got %v", ids(limited))
	}
}

func ids(txs []core.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}

func TestTransactionDateFilters(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	dates := []string{"2024-01-03", "2024-01-07", "2024-01-10", "2024-02-01"}
	for i, d := range dates {
		if err := s.CreateTransaction(ctx, tx(d, d, now.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	byDate, _ := s.GetTransactionsByDate(ctx, "2024-01-03")
	if len(byDate) != 1 {
		t.Errorf("by date: got %d, want 1", len(byDate))
	}

	inRange, _ := s.GetTransactionsByDateRange(ctx, "2024-01-01", "2024-01-07")
	if len(inRange) != 2 {
		t.Errorf("in range: got %d, want 2", len(inRange))
	}

	if err := s.DeleteTransactionsByMonth(ctx, "2024-01"); err != nil {
		t.Fatalf("delete by month: %v", err)
	}
	left, _ := s.GetTransactions(ctx, 0)
	if len(left) != 1 || left[0].Date != "2024-02-01" {
		t.Errorf("only february should remain, got %v", ids(left))
	}
}

func TestDailySummaryUpsertPreservesIdentity(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.PutDailySummary(ctx, core.DailySummary{Date: "2024-01-03", TotalAmount: "10.00", OrderCount: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	first, err := s.GetDailySummary(ctx, "2024-01-03")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatal("summary should get an id and createdAt on first insert")
	}

	if err := s.PutDailySummary(ctx, core.DailySummary{Date: "2024-01-03", TotalAmount: "25.00", OrderCount: 2}); err != nil {
		t.Fatalf("second put: %v", err)
	}
	second, _ := s.GetDailySummary(ctx, "2024-01-03")
	if second.ID != first.ID {
		t.Errorf("upsert should keep id %s, got %s", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("upsert should keep the original createdAt")
	}
	if second.TotalAmount != "25.00" || second.OrderCount != 2 {
		t.Errorf("upsert should replace amounts, got %+v", second)
	}
}

func TestSummaryDeletesByRangeAndMonth(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, d := range []string{"2024-01-01", "2024-01-03", "2024-01-10", "2024-02-01"} {
		if err := s.PutDailySummary(ctx, core.DailySummary{Date: d, TotalAmount: "10.00", OrderCount: 1}); err != nil {
			t.Fatalf("put %s: %v", d, err)
		}
	}
	for _, w := range []string{"2024-01-01", "2024-01-08", "2024-02-05"} {
		if err := s.PutWeeklySummary(ctx, core.WeeklySummary{WeekStart: w, TotalAmount: "10.00", OrderCount: 1}); err != nil {
			t.Fatalf("put week %s: %v", w, err)
		}
	}

	if err := s.DeleteDailySummariesInRange(ctx, "2024-01-01", "2024-01-07"); err != nil {
		t.Fatalf("delete range: %v", err)
	}
	daily, _ := s.GetDailySummaries(ctx, 0)
	if len(daily) != 2 {
		t.Errorf("got %d daily summaries after range delete, want 2", len(daily))
	}

	if err := s.DeleteWeeklySummariesByMonth(ctx, "2024-01"); err != nil {
		t.Fatalf("delete weekly by month: %v", err)
	}
	weekly, _ := s.GetWeeklySummaries(ctx, 0)
	if len(weekly) != 1 || weekly[0].WeekStart != "2024-02-05" {
		t.Errorf("only the february week should remain, got %d", len(weekly))
	}

	if err := s.DeleteDailySummariesByMonth(ctx, "2024-01"); err != nil {
		t.Fatalf("delete daily by month: %v", err)
	}
	daily, _ = s.GetDailySummaries(ctx, 0)
	if len(daily) != 1 || daily[0].Date != "2024-02-01" {
		t.Errorf("only the february day should remain, got %d", len(daily))
	}
}

func TestMenuItemLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	item := core.MenuItem{Name: "Masala Chai", Price: "18.00", Category: "Tea", Available: true}
	if err := s.CreateMenuItem(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, _ := s.GetMenuItems(ctx)
	var id string
	for _, it := range items {
		if it.Name == "Masala Chai" {
			id = it.ID
		}
	}
	if id == "" {
		t.Fatal("created item not found in listing")
	}

	newPrice := "22.00"
	available := false
	updated, err := s.UpdateMenuItem(ctx, id, core.MenuItemUpdate{Price: &newPrice, Available: &available})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != "22.00" || updated.Available {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Name != "Masala Chai" {
		t.Errorf("unset fields should be preserved, name = %s", updated.Name)
	}

	if err := s.DeleteMenuItem(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetMenuItem(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("deleted item should be gone, err = %v", err)
	}
	if err := s.DeleteMenuItem(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("double delete should report not found, err = %v", err)
	}
}
