package badges

import "testing"

func TestProgressClampsToTarget(t *testing.T) {
	if got := Progress(3, 10); got != 3 {
		t.Fatalf("Progress(3, 10) = %d, want 3", got)
	}
	if got := Progress(25, 10); got != 10 {
		t.Fatalf("Progress(25, 10) = %d, want 10", got)
	}
}

func TestUnlockedIffCurrentMeetsTarget(t *testing.T) {
	if Unlocked(9, 10) {
		t.Fatal("Unlocked(9, 10) should be false")
	}
	if !Unlocked(10, 10) || !Unlocked(11, 10) {
		t.Fatal("Unlocked should be true at and past the target")
	}
}

func TestCountsFor(t *testing.T) {
	c := Counts{
		Expenses:                1,
		Incomes:                 2,
		Budgets:                 3,
		CategoryBudgetSuccesses: 4,
		MultiBudgets:            5,
		UnderBudgetMonths:       6,
	}
	cases := map[Kind]int{
		KindExpenseCount:          1,
		KindIncomeCount:           2,
		KindBudgetCount:           3,
		KindCategoryBudgetSuccess: 4,
		KindMultiBudgetCreated:    5,
		KindUnderBudgetMonth:      6,
	}
	for kind, want := range cases {
		if got := c.For(kind); got != want {
			t.Fatalf("For(%s) = %d, want %d", kind, got, want)
		}
	}
	if got := c.For(Kind("unknown")); got != 0 {
		t.Fatalf("For(unknown) = %d, want 0", got)
	}
}

func TestCatalogTargetsPositive(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Catalog {
		if d.Target <= 0 {
			t.Fatalf("badge %s has non-positive target %d", d.Code, d.Target)
		}
		if seen[d.Code] {
			t.Fatalf("duplicate badge code %s", d.Code)
		}
		seen[d.Code] = true
	}
}
