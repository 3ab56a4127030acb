package storage

import (
	"context"
	"path/filepath"
	"testing"

	"tracker/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustInsert(t *testing.T, repo *SQLiteRepository, title string, cents int64, category, date string) int64 {
	t.Helper()
	id, err := repo.Insert(context.Background(), core.Expense{
		Title:    title,
		Amount:   core.Money{Cents: cents},
		Category: category,
		Date:     date,
	})
	if err != nil {
		t.Fatalf("insert %q: %v", title, err)
	}
	return id
}

func TestMigrationsAreIdempotent(t *testing.T) {
	repo := newTestRepo(t)

	// A second run against the same file must be a no-op.
	dbPath := filepath.Join(t.TempDir(), "again.db")
	for i := 0; i < 2; i++ {
		r, err := NewSQLiteRepository(dbPath)
		if err != nil {
			t.Fatalf("open run %d: %v", i, err)
		}
		r.Close()
	}

	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestInsertAssignsIncreasingIDs(t *testing.T) {
	repo := newTestRepo(t)

	var last int64
	for i, title := range []string{"Coffee", "Bus", "Book"} {
		id := mustInsert(t, repo, title, 100, "Other", "2025-01-01")
		if id <= last {
			t.Fatalf("insert %d: id %d not greater than previous %d", i, id, last)
		}
		last = id
	}
}

func TestIDsAreNotReusedAfterDelete(t *testing.T) {
	repo := newTestRepo(t)

	first := mustInsert(t, repo, "Coffee", 450, "Food", "2025-01-01")
	if err := repo.Delete(context.Background(), first); err != nil {
		t.Fatalf("delete: %v", err)
	}
	second := mustInsert(t, repo, "Bus", 200, "Transport", "2025-01-01")
	if second <= first {
		t.Fatalf("expected fresh id after delete, got %d after %d", second, first)
	}
}

func TestListOrdersByDateDescThenInsertion(t *testing.T) {
	repo := newTestRepo(t)

	mustInsert(t, repo, "Old", 100, "Other", "2025-01-01")
	mustInsert(t, repo, "SameDayFirst", 200, "Other", "2025-01-15")
	mustInsert(t, repo, "SameDaySecond", 300, "Other", "2025-01-15")
	mustInsert(t, repo, "Newest", 400, "Other", "2025-02-01")

	want := []string{"Newest", "SameDayFirst", "SameDaySecond", "Old"}

	// Order must be deterministic across repeated calls with no writes.
	for i := 0; i < 2; i++ {
		expenses, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(expenses) != len(want) {
			t.Fatalf("expected %d rows, got %d", len(want), len(expenses))
		}
		for j, title := range want {
			if expenses[j].Title != title {
				t.Fatalf("call %d row %d: expected %q, got %q", i, j, title, expenses[j].Title)
			}
		}
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustInsert(t, repo, "Coffee", 450, "Food", "2025-01-01")

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if err := repo.Delete(ctx, 9999); err != nil {
		t.Fatalf("delete of never-assigned id should be a no-op: %v", err)
	}

	expenses, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("expected empty listing, got %d rows", len(expenses))
	}
}

func TestTotalTracksCreatesAndDeletes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustInsert(t, repo, "Coffee", 450, "Food", "2025-01-01")
	busID := mustInsert(t, repo, "Bus", 200, "Transport", "2025-01-01")

	expenses, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total := core.Total(expenses); total.Cents != 650 {
		t.Fatalf("expected total 650, got %d", total.Cents)
	}

	if err := repo.Delete(ctx, busID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	expenses, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if total := core.Total(expenses); total.Cents != 450 {
		t.Fatalf("expected total 450 after delete, got %d", total.Cents)
	}
	if len(expenses) != 1 || expenses[0].Title != "Coffee" {
		t.Fatalf("expected only Coffee to remain, got %+v", expenses)
	}
}

func TestInsertRoundTripsFields(t *testing.T) {
	repo := newTestRepo(t)

	id := mustInsert(t, repo, "Cinema", -1250, "Entertainment", "2025-03-02")

	expenses, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("expected 1 row, got %d", len(expenses))
	}
	e := expenses[0]
	if e.ID != id || e.Title != "Cinema" || e.Amount.Cents != -1250 ||
		e.Category != "Entertainment" || e.Date != "2025-03-02" {
		t.Fatalf("unexpected row: %+v", e)
	}
}
