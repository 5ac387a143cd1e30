package badges

import (
	"sort"
	"strings"

	"github.com/Eric21111/expense-tracker-sub001/internal/models"
)

// HistoricalCounts walks every finished month that has expense activity and
// counts budget outcomes. A budget counts as existing in a month when it was
// created in or before that month. Returns the number of (budget, month)
// successes (spent within limit) and the number of months where every
// existing budget stayed within limit. Pure and recomputed from scratch, so
// repeated calls are safe.
func HistoricalCounts(budgets []models.Budget, txns []models.Transaction, currentMonth string) (successes, underMonths int) {
	monthSet := make(map[string]bool)
	for _, t := range txns {
		if t.Type != "expense" || len(t.Date) < 7 {
			continue
		}
		month := t.Date[:7]
		if month < currentMonth {
			monthSet[month] = true
		}
	}

	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Strings(months)

	for _, month := range months {
		eligible := 0
		allWithin := true
		for _, b := range budgets {
			if b.CreatedAt.Format("2006-01") > month {
				continue
			}
			eligible++

			var spent float64
			for _, t := range txns {
				if t.Type == "expense" && t.BudgetID == b.ID && strings.HasPrefix(t.Date, month) {
					spent += t.Amount
				}
			}
			if spent <= b.Amount {
				successes++
			} else {
				allWithin = false
			}
		}
		if eligible > 0 && allWithin {
			underMonths++
		}
	}
	return successes, underMonths
}
