package badges

// Kind is what a badge counts.
type Kind string

const (
	KindExpenseCount          Kind = "expense_count"
	KindIncomeCount           Kind = "income_count"
	KindBudgetCount           Kind = "budget_count"
	KindCategoryBudgetSuccess Kind = "category_budget_success"
	KindMultiBudgetCreated    Kind = "multi_budget_created"
	KindUnderBudgetMonth      Kind = "under_budget_month"
)

type Definition struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        Kind   `json:"kind"`
	Target      int    `json:"target"`
}

// Catalog is the fixed set of badge definitions. Per-user unlock state lives
// in the badges table keyed by Code.
var Catalog = []Definition{
	{Code: "first_expense", Name: "First Steps", Description: "Record your first expense", Kind: KindExpenseCount, Target: 1},
	{Code: "expense_10", Name: "Habit Forming", Description: "Record 10 expenses", Kind: KindExpenseCount, Target: 10},
	{Code: "expense_100", Name: "Bookkeeper", Description: "Record 100 expenses", Kind: KindExpenseCount, Target: 100},
	{Code: "first_income", Name: "Payday", Description: "Record your first income", Kind: KindIncomeCount, Target: 1},
	{Code: "income_10", Name: "Steady Earner", Description: "Record 10 incomes", Kind: KindIncomeCount, Target: 10},
	{Code: "first_budget", Name: "Planner", Description: "Create your first budget", Kind: KindBudgetCount, Target: 1},
	{Code: "budget_5", Name: "Strategist", Description: "Keep 5 budgets at once", Kind: KindBudgetCount, Target: 5},
	{Code: "first_multi_budget", Name: "Divide and Conquer", Description: "Create a multi-category budget", Kind: KindMultiBudgetCreated, Target: 1},
	{Code: "category_success_3", Name: "On Target", Description: "Finish a month within limit on 3 category budgets", Kind: KindCategoryBudgetSuccess, Target: 3},
	{Code: "under_budget_month", Name: "Iron Will", Description: "Finish a whole month with every budget within limit", Kind: KindUnderBudgetMonth, Target: 1},
}

// Counts holds the per-user activity counts the requirements are checked
// against. Callers fill it from the database; evaluation itself is pure.
type Counts struct {
	Expenses                int
	Incomes                 int
	Budgets                 int
	CategoryBudgetSuccesses int
	MultiBudgets            int
	UnderBudgetMonths       int
}

func (c Counts) For(k Kind) int {
	switch k {
	case KindExpenseCount:
		return c.Expenses
	case KindIncomeCount:
		return c.Incomes
	case KindBudgetCount:
		return c.Budgets
	case KindCategoryBudgetSuccess:
		return c.CategoryBudgetSuccesses
	case KindMultiBudgetCreated:
		return c.MultiBudgets
	case KindUnderBudgetMonth:
		return c.UnderBudgetMonths
	}
	return 0
}

// Progress clamps a count to the definition's target.
func Progress(current, target int) int {
	if current > target {
		return target
	}
	return current
}

// Unlocked reports whether the raw count meets the target.
func Unlocked(current, target int) bool {
	return current >= target
}
