package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"

	"tracker/internal/core"

	_ "modernc.org/sqlite"
)

// qb builds statements with ? placeholders for the sqlite driver.
var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// The schema has no version column, so conflicting writes from concurrent
	// request goroutines must queue on a single connection instead of racing.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
		PRAGMA foreign_keys = ON;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database answers.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Insert appends a new expense record and returns its assigned id.
// Identifiers are AUTOINCREMENT: strictly increasing, never reused.
func (r *SQLiteRepository) Insert(ctx context.Context, e core.Expense) (int64, error) {
	res, err := qb.Insert("expenses").
		Columns("title", "amount_cents", "category", "date").
		Values(e.Title, e.Amount.Cents, e.Category, e.Date).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"title", e.Title,
		"amount_cents", e.Amount.Cents,
		"category", e.Category,
		"date", e.Date)

	return id, nil
}

// List returns every expense ordered by date descending. Records sharing a
// date keep insertion order (id ascending), so repeated calls with no
// intervening writes always produce the same sequence.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := qb.Select("id", "title", "amount_cents", "category", "date").
		From("expenses").
		OrderBy("date DESC", "id ASC").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount.Cents, &e.Category, &e.Date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

// Delete removes the expense with the given id. Deleting an id that does not
// exist is a successful no-op, so the operation is idempotent.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := qb.Delete("expenses").
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		slog.DebugContext(ctx, "Delete of unknown expense id", "id", id)
	} else {
		slog.InfoContext(ctx, "Expense deleted", "id", id)
	}

	return nil
}
