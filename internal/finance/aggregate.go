package finance

import (
	"math"
	"time"

	"github.com/Eric21111/expense-tracker-sub001/internal/models"
)

// Status is the derived view of one budget. Spent is computed from
// transactions at read time, never stored.
type Status struct {
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// Group is the aggregate view of budgets sharing a GroupID.
type Group struct {
	GroupID    string   `json:"group_id"`
	Label      string   `json:"label"`
	Amount     float64  `json:"amount"`
	Spent      float64  `json:"spent"`
	Remaining  float64  `json:"remaining"`
	Percentage float64  `json:"percentage"`
	Categories []string `json:"categories"`
	BudgetIDs  []uint   `json:"budget_ids"`
}

// Percentage returns spent/amount*100, defined as 0 when amount is 0.
func Percentage(spent, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	return spent / amount * 100
}

// Spent sums expense transactions attributed to the budget. Attribution is
// by budget id only; category strings are display metadata.
func Spent(b models.Budget, txns []models.Transaction) float64 {
	var total float64
	for _, t := range txns {
		if t.Type == "expense" && t.BudgetID == b.ID {
			total += t.Amount
		}
	}
	return total
}

func StatusFor(b models.Budget, txns []models.Transaction) Status {
	spent := Spent(b, txns)
	return Status{
		Spent:      spent,
		Remaining:  b.Amount - spent,
		Percentage: Percentage(spent, b.Amount),
	}
}

// Groups aggregates budgets that share a non-empty GroupID, in order of
// first appearance. Group totals are the sums of the member totals.
func Groups(budgets []models.Budget, txns []models.Transaction) []Group {
	var order []string
	byID := make(map[string]*Group)

	for _, b := range budgets {
		if b.GroupID == "" {
			continue
		}
		g, ok := byID[b.GroupID]
		if !ok {
			g = &Group{GroupID: b.GroupID, Label: b.Label}
			byID[b.GroupID] = g
			order = append(order, b.GroupID)
		}
		g.Amount += b.Amount
		g.Spent += Spent(b, txns)
		g.Categories = append(g.Categories, b.Category)
		g.BudgetIDs = append(g.BudgetIDs, b.ID)
	}

	groups := make([]Group, 0, len(order))
	for _, id := range order {
		g := byID[id]
		g.Remaining = g.Amount - g.Spent
		g.Percentage = Percentage(g.Spent, g.Amount)
		groups = append(groups, *g)
	}
	return groups
}

// Summary holds date-range totals for the transaction summary endpoint.
type Summary struct {
	TotalIncome       float64            `json:"total_income"`
	TotalExpense      float64            `json:"total_expense"`
	Net               float64            `json:"net"`
	ByCategory        map[string]float64 `json:"by_category"`
	AverageDailySpend float64            `json:"average_daily_spend"`
	TransactionCount  int                `json:"transaction_count"`
}

func Summarize(txns []models.Transaction) Summary {
	s := Summary{
		ByCategory:       map[string]float64{},
		TransactionCount: len(txns),
	}
	for _, t := range txns {
		switch t.Type {
		case "income":
			s.TotalIncome += t.Amount
		case "expense":
			s.TotalExpense += t.Amount
			s.ByCategory[t.Category] += t.Amount
		}
	}
	s.Net = s.TotalIncome - s.TotalExpense
	s.AverageDailySpend = AverageDailySpend(txns)
	return s
}

// AverageDailySpend divides total expense by the number of distinct calendar
// dates that have at least one expense. 0 when there are no expenses.
// Rounded to 2 decimals.
func AverageDailySpend(txns []models.Transaction) float64 {
	days := make(map[string]bool)
	var total float64
	for _, t := range txns {
		if t.Type != "expense" {
			continue
		}
		total += t.Amount
		days[calendarDate(t.Date)] = true
	}
	if len(days) == 0 {
		return 0
	}
	return round2(total / float64(len(days)))
}

// calendarDate reduces a date string to its "2006-01-02" prefix so a stray
// timestamp still counts as one calendar day.
func calendarDate(d string) string {
	if len(d) > 10 {
		return d[:10]
	}
	return d
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CurrentMonthKey formats the month key used by budget resets and alert
// deduplication.
func CurrentMonthKey(t time.Time) string {
	return t.Format("2006-01")
}
