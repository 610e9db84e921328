package core

import (
	"cmp"
	"slices"
)

// CategoryAmount represents an amount aggregated by category id.
type CategoryAmount struct {
	CategoryID string
	Amount     float64
}

// TotalSpent sums the amount of every transaction. An empty list totals 0.
func TotalSpent(txns []Transaction) float64 {
	var total float64
	for _, t := range txns {
		total += t.Amount
	}
	return total
}

// CategoryTotals sums amounts per category id. Categories without transactions
// have no entry.
func CategoryTotals(txns []Transaction) map[string]float64 {
	totals := make(map[string]float64)
	for _, t := range txns {
		totals[t.Category] += t.Amount
	}
	return totals
}

// TopCategories orders totals by amount, largest first, and keeps at most n.
// Equal amounts are ordered by category id so the result is reproducible.
func TopCategories(totals map[string]float64, n int) []CategoryAmount {
	if n <= 0 || len(totals) == 0 {
		return nil
	}
	out := make([]CategoryAmount, 0, len(totals))
	for id, amount := range totals {
		out = append(out, CategoryAmount{CategoryID: id, Amount: amount})
	}
	slices.SortFunc(out, func(a, b CategoryAmount) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.CategoryID, b.CategoryID)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// PercentageOfTotal returns amount as a percentage of total. A zero total yields 0.
func PercentageOfTotal(amount, total float64) float64 {
	if total == 0 {
		return 0
	}
	return amount / total * 100
}

// FilterByCategory keeps the transactions of one category, preserving order.
func FilterByCategory(txns []Transaction, categoryID string) []Transaction {
	var out []Transaction
	for _, t := range txns {
		if t.Category == categoryID {
			out = append(out, t)
		}
	}
	return out
}

// SortByDateDescending returns a new slice ordered most recent first.
// Transactions with the same date keep their relative order.
func SortByDateDescending(txns []Transaction) []Transaction {
	out := slices.Clone(txns)
	slices.SortStableFunc(out, func(a, b Transaction) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// SortReceiptsByCreatedDescending returns a new slice of receipts, newest capture first.
func SortReceiptsByCreatedDescending(receipts []Receipt) []Receipt {
	out := slices.Clone(receipts)
	slices.SortStableFunc(out, func(a, b Receipt) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// Recent returns the first n entries of an already sorted list.
func Recent(txns []Transaction, n int) []Transaction {
	if n <= 0 {
		return nil
	}
	if len(txns) <= n {
		return txns
	}
	return txns[:n]
}
