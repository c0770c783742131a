package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jeyasuryak/chai-fi/internal/core"
	"github.com/jeyasuryak/chai-fi/internal/services"
	"github.com/jeyasuryak/chai-fi/internal/store/memory"
)

func newTestServer() (*Server, *memory.Store) {
	st := memory.New()
	engine := services.NewSummaryEngine(st, st)
	ledger := services.NewLedger(st, engine, nil, nil)
	return NewServer(":0", ledger, st), st
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer()
	rec := doJSON(t, s, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	s, _ := newTestServer()

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{
			name:       "valid credentials",
			body:       map[string]string{"username": "Inowara", "password": "Inowara@2025"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			body:       map[string]string{"username": "Inowara", "password": "nope"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown user",
			body:       map[string]string{"username": "ghost", "password": "x"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing fields",
			body:       map[string]string{"username": "Inowara"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/auth/login", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}

	t.Run("response excludes password", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/auth/login", map[string]string{
			"username": "Inowara", "password": "Inowara@2025",
		})
		if strings.Contains(rec.Body.String(), "Inowara@2025") {
			t.Error("login response must not echo the password")
		}
	})
}

func transactionBody() map[string]any {
	return map[string]any{
		"items":         []map[string]any{{"id": "1", "name": "Ginger Tea", "price": 15, "quantity": 2}},
		"totalAmount":   "30.00",
		"paymentMethod": "cash",
		"date":          "2024-01-03",
	}
}

func TestCreateTransactionEndpoint(t *testing.T) {
	s, _ := newTestServer()

	rec := doJSON(t, s, http.MethodPost, "/api/transactions", transactionBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var created core.Transaction
	decodeBody(t, rec, &created)
	if created.ID == "" || created.BillerName != core.DefaultBillerName || created.DayName != "Wednesday" {
		t.Errorf("created = %+v", created)
	}

	// The summary is visible immediately
	sumRec := doJSON(t, s, http.MethodGet, "/api/summaries/daily/2024-01-03", nil)
	if sumRec.Code != http.StatusOK {
		t.Fatalf("summary status = %d, want 200", sumRec.Code)
	}
	var sum core.DailySummary
	decodeBody(t, sumRec, &sum)
	if sum.TotalAmount != "30.00" || sum.CashAmount != "30.00" || sum.OrderCount != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestCreateTransactionAcceptsDayName(t *testing.T) {
	s, _ := newTestServer()

	body := transactionBody()
	body["dayName"] = "Wed"
	rec := doJSON(t, s, http.MethodPost, "/api/transactions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var created core.Transaction
	decodeBody(t, rec, &created)
	if created.DayName != "Wed" {
		t.Errorf("dayName = %s, want Wed", created.DayName)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	s, _ := newTestServer()

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{name: "missing items", mutate: func(b map[string]any) { delete(b, "items") }},
		{name: "missing date", mutate: func(b map[string]any) { delete(b, "date") }},
		{name: "bad date format", mutate: func(b map[string]any) { b["date"] = "03/01/2024" }},
		{name: "bad payment method", mutate: func(b map[string]any) { b["paymentMethod"] = "card" }},
		{name: "negative amount", mutate: func(b map[string]any) { b["totalAmount"] = "-5.00" }},
		{name: "split without details", mutate: func(b map[string]any) { b["paymentMethod"] = "split" }},
		{name: "unknown field", mutate: func(b map[string]any) { b["surprise"] = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := transactionBody()
			tt.mutate(body)
			rec := doJSON(t, s, http.MethodPost, "/api/transactions", body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestTransactionsByDate(t *testing.T) {
	s, _ := newTestServer()

	if rec := doJSON(t, s, http.MethodPost, "/api/transactions", transactionBody()); rec.Code != http.StatusCreated {
		t.Fatalf("seed failed: %d", rec.Code)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/transactions/date/2024-01-03", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var txs []core.Transaction
	decodeBody(t, rec, &txs)
	if len(txs) != 1 {
		t.Errorf("got %d transactions, want 1", len(txs))
	}

	if rec := doJSON(t, s, http.MethodGet, "/api/transactions/date/bad-date", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}
}

func TestSummaryNotFound(t *testing.T) {
	s, _ := newTestServer()

	for _, path := range []string{
		"/api/summaries/daily/2030-01-01",
		"/api/summaries/weekly/2030-01-06",
		"/api/summaries/monthly/2030-01",
	} {
		if rec := doJSON(t, s, http.MethodGet, path, nil); rec.Code != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404", path, rec.Code)
		}
	}
}

func TestMenuEndpoints(t *testing.T) {
	s, _ := newTestServer()

	rec := doJSON(t, s, http.MethodGet, "/api/menu", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var items []core.MenuItem
	decodeBody(t, rec, &items)
	if len(items) != 8 {
		t.Errorf("default menu has %d items, want 8", len(items))
	}

	createRec := doJSON(t, s, http.MethodPost, "/api/menu", map[string]any{
		"name": "Masala Chai", "price": "18.00", "category": "Tea",
	})
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create status = %d (body %s)", createRec.Code, createRec.Body.String())
	}
	var created core.MenuItem
	decodeBody(t, createRec, &created)
	if created.ID == "" || !created.Available {
		t.Errorf("created = %+v", created)
	}

	badPrice := doJSON(t, s, http.MethodPost, "/api/menu", map[string]any{
		"name": "Bad", "price": "free", "category": "Tea",
	})
	if badPrice.Code != http.StatusBadRequest {
		t.Errorf("bad price status = %d, want 400", badPrice.Code)
	}

	updRec := doJSON(t, s, http.MethodPatch, "/api/menu/"+created.ID, map[string]any{"price": "22.00"})
	if updRec.Code != http.StatusOK {
		t.Fatalf("update status = %d (body %s)", updRec.Code, updRec.Body.String())
	}
	var updated core.MenuItem
	decodeBody(t, updRec, &updated)
	if updated.Price != "22.00" || updated.Name != "Masala Chai" {
		t.Errorf("updated = %+v", updated)
	}

	if rec := doJSON(t, s, http.MethodPatch, "/api/menu/missing", map[string]any{"price": "22.00"}); rec.Code != http.StatusNotFound {
		t.Errorf("update missing status = %d, want 404", rec.Code)
	}

	if rec := doJSON(t, s, http.MethodDelete, "/api/menu/"+created.ID, nil); rec.Code != http.StatusOK {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodDelete, "/api/menu/"+created.ID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", rec.Code)
	}
}

func TestMenuSalesEndpoint(t *testing.T) {
	s, _ := newTestServer()

	createRec := doJSON(t, s, http.MethodPost, "/api/menu", map[string]any{
		"name": "Ginger Tea", "price": "15.00", "category": "Tea",
	})
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create menu item failed: %d", createRec.Code)
	}
	var item core.MenuItem
	decodeBody(t, createRec, &item)

	body := transactionBody()
	body["items"] = []map[string]any{{"id": item.ID, "name": item.Name, "price": 15, "quantity": 2}}
	if rec := doJSON(t, s, http.MethodPost, "/api/transactions", body); rec.Code != http.StatusCreated {
		t.Fatalf("seed failed: %d", rec.Code)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/menu/sales?date=2024-01-03", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var report []services.MenuItemSales
	decodeBody(t, rec, &report)
	if len(report) == 0 || report[0].ID != item.ID || report[0].TotalSold != 2 {
		t.Errorf("report = %+v", report)
	}

	// A missing date means today
	if rec := doJSON(t, s, http.MethodGet, "/api/menu/sales", nil); rec.Code != http.StatusOK {
		t.Errorf("default date status = %d, want 200", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodGet, "/api/menu/sales?date=nope", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}
}

func TestClearDataEndpoint(t *testing.T) {
	s, _ := newTestServer()

	if rec := doJSON(t, s, http.MethodPost, "/api/transactions", transactionBody()); rec.Code != http.StatusCreated {
		t.Fatalf("seed failed: %d", rec.Code)
	}

	if rec := doJSON(t, s, http.MethodDelete, "/api/data/clear?period=year&date=2024-01-03", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad period status = %d, want 400", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodDelete, "/api/data/clear?period=day", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing date status = %d, want 400", rec.Code)
	}

	rec := doJSON(t, s, http.MethodDelete, "/api/data/clear?period=day&date=2024-01-03", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d (body %s)", rec.Code, rec.Body.String())
	}

	if rec := doJSON(t, s, http.MethodGet, "/api/summaries/daily/2024-01-03", nil); rec.Code != http.StatusNotFound {
		t.Errorf("summary after clear status = %d, want 404", rec.Code)
	}
}

func TestDownloadDailyCSV(t *testing.T) {
	s, _ := newTestServer()

	if rec := doJSON(t, s, http.MethodPost, "/api/transactions", transactionBody()); rec.Code != http.StatusCreated {
		t.Fatalf("seed failed: %d", rec.Code)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/download/daily/2024-01-03", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %s, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "daily-report-2024-01-03.csv") {
		t.Errorf("content disposition = %s", cd)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Ginger Tea x2") || !strings.Contains(body, "TOTAL") {
		t.Errorf("csv body missing expected rows:\n%s", body)
	}

	if rec := doJSON(t, s, http.MethodGet, "/api/download/daily/nope", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s, _ := newTestServer()

	rec := doJSON(t, s, http.MethodGet, "/api/menu", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %s, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %s, want DENY", got)
	}
}
