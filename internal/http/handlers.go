package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jeyasuryak/chai-fi/internal/core"
)

// Auth

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid login request", validationDetails(err)...)
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil || user.Password != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{ID: user.ID, Username: user.Username})
}

// Menu

type createMenuItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Image       string `json:"image"`
	Available   *bool  `json:"available"`
}

func (s *Server) handleListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.GetMenuItems(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List menu failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetMenuItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	item, err := s.store.GetMenuItem(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "menu item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req createMenuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid menu item", validationDetails(err)...)
		return
	}
	if _, err := core.ParseAmount(req.Price); err != nil {
		writeError(w, http.StatusBadRequest, "invalid price: must be a non-negative decimal amount")
		return
	}

	item := core.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Available:   true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := s.store.CreateMenuItem(r.Context(), item); err != nil {
		slog.ErrorContext(r.Context(), "Create menu item failed", "error", err, "name", item.Name)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var upd core.MenuItemUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if upd.Price != nil {
		if _, err := core.ParseAmount(*upd.Price); err != nil {
			writeError(w, http.StatusBadRequest, "invalid price: must be a non-negative decimal amount")
			return
		}
	}

	item, err := s.store.UpdateMenuItem(r.Context(), id, upd)
	if err != nil {
		writeStoreError(w, err, "menu item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteMenuItem(r.Context(), id); err != nil {
		writeStoreError(w, err, "menu item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "menu item deleted"})
}

func (s *Server) handleMenuSales(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format(core.DateLayout)
	}
	report, err := s.ledger.MenuSales(r.Context(), date)
	if err != nil {
		if errors.Is(err, core.ErrInvalidDate) {
			writeError(w, http.StatusBadRequest, "invalid date: expected YYYY-MM-DD")
			return
		}
		slog.ErrorContext(r.Context(), "Menu sales report failed", "error", err, "date", date)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Transactions

type createTransactionRequest struct {
	Items         []core.TransactionItem `json:"items" validate:"required,min=1"`
	TotalAmount   string                 `json:"totalAmount" validate:"required"`
	PaymentMethod string                 `json:"paymentMethod" validate:"required,oneof=cash gpay split creditor"`
	BillerName    string                 `json:"billerName"`
	DayName       string                 `json:"dayName"`
	SplitPayment  *core.SplitPayment     `json:"splitPayment"`
	Creditor      *core.Creditor         `json:"creditor"`
	Extras        []core.Extra           `json:"extras"`
	Date          string                 `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string                 `json:"time"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction", validationDetails(err)...)
		return
	}

	tx := core.Transaction{
		Items:         req.Items,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: core.PaymentMethod(req.PaymentMethod),
		BillerName:    req.BillerName,
		DayName:       req.DayName,
		SplitPayment:  req.SplitPayment,
		Creditor:      req.Creditor,
		Extras:        req.Extras,
		Date:          req.Date,
		Time:          req.Time,
	}

	created, err := s.ledger.CreateTransaction(r.Context(), tx)
	if err != nil {
		if isDomainError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create transaction failed", "error", err, "date", tx.Date)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrInvalidPaymentMethod,
		core.ErrNoItems,
		core.ErrInvalidQuantity,
		core.ErrMissingSplit,
		core.ErrMissingCreditor,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.GetTransactions(r.Context(), parseLimit(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleTransactionsByDate(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if _, err := core.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: expected YYYY-MM-DD")
		return
	}
	txs, err := s.store.GetTransactionsByDate(r.Context(), date)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions by date failed", "error", err, "date", date)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

// Summaries

func (s *Server) handleListDailySummaries(w http.ResponseWriter, r *http.Request) {
	sums, err := s.store.GetDailySummaries(r.Context(), parseLimit(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "List daily summaries failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, sums)
}

func (s *Server) handleGetDailySummary(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	sum, err := s.store.GetDailySummary(r.Context(), date)
	if err != nil {
		writeStoreError(w, err, "no summary for "+date)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleListWeeklySummaries(w http.ResponseWriter, r *http.Request) {
	sums, err := s.store.GetWeeklySummaries(r.Context(), parseLimit(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "List weekly summaries failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, sums)
}

func (s *Server) handleGetWeeklySummary(w http.ResponseWriter, r *http.Request) {
	weekStart := r.PathValue("weekStart")
	sum, err := s.store.GetWeeklySummary(r.Context(), weekStart)
	if err != nil {
		writeStoreError(w, err, "no summary for week "+weekStart)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleListMonthlySummaries(w http.ResponseWriter, r *http.Request) {
	sums, err := s.store.GetMonthlySummaries(r.Context(), parseLimit(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "List monthly summaries failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, sums)
}

func (s *Server) handleGetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	month := r.PathValue("month")
	sum, err := s.store.GetMonthlySummary(r.Context(), month)
	if err != nil {
		writeStoreError(w, err, "no summary for month "+month)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// Creditors

func (s *Server) handleCreditors(w http.ResponseWriter, r *http.Request) {
	balances, err := s.ledger.CreditorBalances(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Creditor balances failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, balances)
}

// Clear

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	date := r.URL.Query().Get("date")

	switch period {
	case "day", "week", "month":
	default:
		writeError(w, http.StatusBadRequest, "invalid period: must be day, week, or month")
		return
	}
	if _, err := core.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid or missing date: expected YYYY-MM-DD")
		return
	}

	message, err := s.ledger.ClearPeriod(r.Context(), period, date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Clear data failed", "error", err, "period", period, "date", date)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}
