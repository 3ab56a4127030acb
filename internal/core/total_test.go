package core

import "testing"

func TestTotal(t *testing.T) {
	cases := []struct {
		name     string
		expenses []Expense
		want     int64
	}{
		{"empty", nil, 0},
		{"single", []Expense{{Amount: Money{Cents: 450}}}, 450},
		{"multiple", []Expense{{Amount: Money{Cents: 450}}, {Amount: Money{Cents: 200}}}, 650},
		{"with negative", []Expense{{Amount: Money{Cents: 450}}, {Amount: Money{Cents: -200}}}, 250},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Total(tc.expenses); got.Cents != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got.Cents)
			}
		})
	}
}
