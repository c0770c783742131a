package http

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jeyasuryak/chai-fi/internal/core"
)

// Period reports are served as CSV: one row per transaction, with a summary
// footer when the period has a stored summary.

func (s *Server) handleDownloadDaily(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if _, err := core.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: expected YYYY-MM-DD")
		return
	}

	txs, err := s.store.GetTransactionsByDate(r.Context(), date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Daily report failed", "error", err, "date", date)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	sum, err := s.store.GetDailySummary(r.Context(), date)
	if err != nil {
		sum = nil
	}

	var footer []string
	if sum != nil {
		footer = summaryFooter(sum.TotalAmount, sum.GpayAmount, sum.CashAmount, sum.OrderCount)
	}
	s.writeCSVReport(w, r, "daily-report-"+date+".csv", txs, footer)
}

func (s *Server) handleDownloadWeekly(w http.ResponseWriter, r *http.Request) {
	weekStart, weekEnd, err := core.WeekRange(r.PathValue("weekStart"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid week start: expected YYYY-MM-DD")
		return
	}

	txs, err := s.store.GetTransactionsByDateRange(r.Context(), weekStart, weekEnd)
	if err != nil {
		slog.ErrorContext(r.Context(), "Weekly report failed", "error", err, "week_start", weekStart)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var footer []string
	if sum, err := s.store.GetWeeklySummary(r.Context(), weekStart); err == nil {
		footer = summaryFooter(sum.TotalAmount, sum.GpayAmount, sum.CashAmount, sum.OrderCount)
	}
	s.writeCSVReport(w, r, "weekly-report-"+weekStart+".csv", txs, footer)
}

func (s *Server) handleDownloadMonthly(w http.ResponseWriter, r *http.Request) {
	month := core.MonthKey(r.PathValue("month"))
	if _, err := core.ParseDate(month + "-01"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid month: expected YYYY-MM")
		return
	}

	start, end := core.MonthRange(month)
	txs, err := s.store.GetTransactionsByDateRange(r.Context(), start, end)
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly report failed", "error", err, "month", month)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var footer []string
	if sum, err := s.store.GetMonthlySummary(r.Context(), month); err == nil {
		footer = summaryFooter(sum.TotalAmount, sum.GpayAmount, sum.CashAmount, sum.OrderCount)
	}
	s.writeCSVReport(w, r, "monthly-report-"+month+".csv", txs, footer)
}

func summaryFooter(total, gpay, cash string, orders int) []string {
	return []string{"TOTAL", "", total, gpay, cash, strconv.Itoa(orders), "", ""}
}

func (s *Server) writeCSVReport(w http.ResponseWriter, r *http.Request, filename string, txs []core.Transaction, footer []string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"date", "time", "total", "gpay", "cash", "items", "payment_method", "biller"})

	for _, t := range txs {
		gpay, cash := t.Contribution()
		items := ""
		for i, item := range t.Items {
			if i > 0 {
				items += "; "
			}
			items += fmt.Sprintf("%s x%d", item.Name, item.Quantity)
		}
		_ = cw.Write([]string{
			t.Date,
			t.Time,
			t.TotalAmount,
			core.FormatAmount(gpay),
			core.FormatAmount(cash),
			items,
			string(t.PaymentMethod),
			t.BillerName,
		})
	}
	if footer != nil {
		_ = cw.Write(footer)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.ErrorContext(r.Context(), "CSV write failed", "error", err, "filename", filename)
	}
}
