package core

import "sort"

// MonthlyTotal sums the amounts of a set of expenses. An empty set
// totals zero. The sum is order-independent.
func MonthlyTotal(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// SortByDay orders expenses by day ascending, keeping insertion order
// for expenses on the same day.
func SortByDay(expenses []Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Day < expenses[j].Day
	})
}

// GroupByMonth partitions a year's expenses by month index. Months
// with no expenses are absent from the map, which is distinct from a
// month that sums to zero. Each month's slice is day-sorted.
func GroupByMonth(expenses []Expense) map[int][]Expense {
	grouped := make(map[int][]Expense)
	for _, e := range expenses {
		grouped[e.Month] = append(grouped[e.Month], e)
	}
	for m := range grouped {
		SortByDay(grouped[m])
	}
	return grouped
}

// AnnualTotal sums the monthly totals of a grouped year.
func AnnualTotal(grouped map[int][]Expense) Money {
	var total Money
	for _, month := range grouped {
		total = total.Add(MonthlyTotal(month))
	}
	return total
}

// IsExceeded reports whether spending went strictly over the budget.
// A zero (or unset) budget never counts as exceeded.
func IsExceeded(total, budget Money) bool {
	return budget.Cents > 0 && total.GreaterThan(budget)
}
