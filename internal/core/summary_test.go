package core

import (
	"reflect"
	"testing"
	"time"
)

func txn(id, cat string, amount float64, date time.Time) Transaction {
	return Transaction{ID: id, MerchantName: id, Category: cat, Amount: amount, Date: date}
}

func TestTotalSpent(t *testing.T) {
	if got := TotalSpent(nil); got != 0 {
		t.Fatalf("empty total = %v", got)
	}
	got := TotalSpent([]Transaction{{Amount: 10}, {Amount: 5.5}})
	if got != 15.5 {
		t.Fatalf("expected 15.5, got %v", got)
	}
}

func TestCategoryTotals(t *testing.T) {
	got := CategoryTotals([]Transaction{
		{Category: "food", Amount: 10},
		{Category: "food", Amount: 5},
		{Category: "travel", Amount: 3},
	})
	want := map[string]float64{"food": 15, "travel": 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if _, ok := got["shopping"]; ok {
		t.Fatalf("absent category must not appear")
	}
}

func TestTopCategories(t *testing.T) {
	totals := map[string]float64{"food": 15, "travel": 3, "shopping": 20}
	got := TopCategories(totals, 3)
	want := []CategoryAmount{{"shopping", 20}, {"food", 15}, {"travel", 3}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	totals["utilities"] = 1
	if got := TopCategories(totals, 3); len(got) != 3 {
		t.Fatalf("expected truncation to 3, got %d", len(got))
	}
	if got := TopCategories(totals, 0); got != nil {
		t.Fatalf("n=0 should return nil, got %v", got)
	}
	if got := TopCategories(nil, 3); got != nil {
		t.Fatalf("empty totals should return nil, got %v", got)
	}
}

func TestTopCategoriesTieBreak(t *testing.T) {
	totals := map[string]float64{"travel": 5, "food": 5, "other": 5, "shopping": 9}
	for i := 0; i < 20; i++ {
		got := TopCategories(totals, 3)
		want := []CategoryAmount{{"shopping", 9}, {"food", 5}, {"other", 5}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("iteration %d: got %v, want %v", i, got, want)
		}
	}
}

func TestPercentageOfTotal(t *testing.T) {
	if got := PercentageOfTotal(25, 100); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
	if got := PercentageOfTotal(5, 0); got != 0 {
		t.Fatalf("zero total should yield 0, got %v", got)
	}
}

func TestFilterByCategory(t *testing.T) {
	now := time.Now()
	txns := []Transaction{txn("a", "food", 1, now), txn("b", "travel", 2, now), txn("c", "food", 3, now)}
	got := FilterByCategory(txns, "food")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected filter result: %v", got)
	}
	if got := FilterByCategory(txns, "healthcare"); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestSortByDateDescending(t *testing.T) {
	base := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	txns := []Transaction{
		txn("old", "food", 1, base.AddDate(0, 0, -3)),
		txn("new", "food", 1, base),
		txn("mid1", "food", 1, base.AddDate(0, 0, -1)),
		txn("mid2", "food", 1, base.AddDate(0, 0, -1)),
	}
	got := SortByDateDescending(txns)
	ids := []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID}
	want := []string{"new", "mid1", "mid2", "old"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	if txns[0].ID != "old" {
		t.Fatalf("input must not be reordered")
	}
}

func TestSortReceiptsByCreatedDescending(t *testing.T) {
	base := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	got := SortReceiptsByCreatedDescending([]Receipt{
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base.Add(time.Hour)},
	})
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestRecent(t *testing.T) {
	txns := make([]Transaction, 7)
	if got := Recent(txns, 5); len(got) != 5 {
		t.Fatalf("expected 5, got %d", len(got))
	}
	if got := Recent(txns[:2], 5); len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
}
