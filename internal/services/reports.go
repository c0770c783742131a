package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jeyasuryak/chai-fi/internal/core"
)

// MenuItemSales is the per-item sales line for a single day.
type MenuItemSales struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     string `json:"price"`
	TotalSold int    `json:"totalSold"`
	Revenue   string `json:"revenue"`
}

// CreditorBalance is the aggregated position of one creditor across all
// credit transactions.
type CreditorBalance struct {
	Name          string `json:"name"`
	TotalAmount   string `json:"totalAmount"`
	PaidAmount    string `json:"paidAmount"`
	BalanceAmount string `json:"balanceAmount"`
	Transactions  int    `json:"transactions"`
}

// MenuSales reports how many units of each menu item sold on date, with the
// revenue each brought in. Items with no sales that day are included with
// zero counts so the report always covers the full menu.
func (l *Ledger) MenuSales(ctx context.Context, date string) ([]MenuItemSales, error) {
	if _, err := core.ParseDate(date); err != nil {
		return nil, err
	}

	menu, err := l.store.GetMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	txs, err := l.store.GetTransactionsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load transactions for %s: %w", date, err)
	}

	type tally struct {
		sold    int
		revenue decimal.Decimal
	}
	sold := make(map[string]*tally)
	for _, t := range txs {
		for _, item := range t.Items {
			entry, ok := sold[item.ID]
			if !ok {
				entry = &tally{}
				sold[item.ID] = entry
			}
			entry.sold += item.Quantity
			line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
			entry.revenue = entry.revenue.Add(line)
		}
	}

	report := make([]MenuItemSales, 0, len(menu))
	for _, m := range menu {
		line := MenuItemSales{
			ID:       m.ID,
			Name:     m.Name,
			Category: m.Category,
			Price:    m.Price,
			Revenue:  core.FormatAmount(decimal.Zero),
		}
		if entry, ok := sold[m.ID]; ok {
			line.TotalSold = entry.sold
			line.Revenue = core.FormatAmount(entry.revenue)
		}
		report = append(report, line)
	}
	sort.SliceStable(report, func(i, j int) bool {
		return report[i].TotalSold > report[j].TotalSold
	})
	return report, nil
}

// CreditorBalances groups all credit transactions by creditor name and sums
// their paid, balance and total amounts.
func (l *Ledger) CreditorBalances(ctx context.Context) ([]CreditorBalance, error) {
	txs, err := l.store.GetTransactions(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	type position struct {
		total   decimal.Decimal
		paid    decimal.Decimal
		balance decimal.Decimal
		count   int
	}
	byName := make(map[string]*position)
	order := make([]string, 0)
	for _, t := range txs {
		if t.PaymentMethod != core.PaymentCreditor || t.Creditor == nil {
			continue
		}
		p, ok := byName[t.Creditor.Name]
		if !ok {
			p = &position{}
			byName[t.Creditor.Name] = p
			order = append(order, t.Creditor.Name)
		}
		p.total = p.total.Add(decimal.NewFromFloat(t.Creditor.TotalAmount))
		p.paid = p.paid.Add(decimal.NewFromFloat(t.Creditor.PaidAmount))
		p.balance = p.balance.Add(decimal.NewFromFloat(t.Creditor.BalanceAmount))
		p.count++
	}

	balances := make([]CreditorBalance, 0, len(order))
	for _, name := range order {
		p := byName[name]
		balances = append(balances, CreditorBalance{
			Name:          name,
			TotalAmount:   core.FormatAmount(p.total),
			PaidAmount:    core.FormatAmount(p.paid),
			BalanceAmount: core.FormatAmount(p.balance),
			Transactions:  p.count,
		})
	}
	sort.SliceStable(balances, func(i, j int) bool {
		return balances[i].Name < balances[j].Name
	})
	return balances, nil
}
