package core

// Total sums the amounts of the given expenses. The total is always derived
// from the snapshot being rendered, never stored; an empty set totals zero.
func Total(expenses []Expense) Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}
