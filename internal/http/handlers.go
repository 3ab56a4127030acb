package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"tracker/internal/core"
)

type expenseRow struct {
	ID       int64
	Title    string
	Amount   string
	Category string
	Date     string
}

type indexData struct {
	Rows       []expenseRow
	Total      string
	Categories []string
}

// handleIndex renders the listing page. Rows and total come from the same
// List snapshot, so the rendered total always matches the rendered rows.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses error", "error", err, "component", "expense_handler", "operation", "list")
		http.Error(w, "failed to load expenses", http.StatusInternalServerError)
		return
	}

	data := indexData{
		Total:      formatAmount(core.Total(expenses).Cents),
		Categories: core.Categories,
	}
	for _, e := range expenses {
		data.Rows = append(data.Rows, expenseRow{
			ID:       e.ID,
			Title:    e.Title,
			Amount:   formatAmount(e.Amount.Cents),
			Category: e.Category,
			Date:     e.Date,
		})
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleCreateExpense persists one record per accepted form submission and
// redirects back to the listing. The creation date is the server's current
// local date; callers cannot supply it.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		http.Error(w, "invalid request format", http.StatusBadRequest)
		return
	}

	title := sanitizeInput(r.Form.Get("title"))
	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	category := sanitizeInput(r.Form.Get("category"))

	cents, err := core.ParseCents(amountStr)
	if err != nil {
		http.Error(w, "invalid amount", http.StatusUnprocessableEntity)
		return
	}

	exp := core.Expense{
		Title:    title,
		Amount:   core.Money{Cents: cents},
		Category: category,
		Date:     core.Today(),
	}
	if err := exp.Validate(); err != nil {
		http.Error(w, "invalid data: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	id, err := s.store.Insert(r.Context(), exp)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save expense",
			"error", err,
			"title", exp.Title,
			"amount_cents", exp.Amount.Cents,
			"category", exp.Category,
			"component", "expense_handler",
			"operation", "create")
		http.Error(w, "error saving expense", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "Expense created",
		"id", id,
		"title", exp.Title,
		"amount_cents", exp.Amount.Cents,
		"category", exp.Category,
		"date", exp.Date,
		"component", "expense_handler",
		"operation", "create")

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDeleteExpense removes the record with the given id and redirects to
// the listing. Unknown ids are a no-op, so repeating a delete is safe.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid expense id", http.StatusUnprocessableEntity)
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete expense",
			"error", err,
			"id", id,
			"component", "expense_handler",
			"operation", "delete")
		http.Error(w, "error deleting expense", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
