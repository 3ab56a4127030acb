package core

import (
	"errors"
	"strings"
	"time"
)

// Categories suggested by the creation form. Storage does not enforce
// membership: any non-empty category string is accepted.
var Categories = []string{"Food", "Transport", "Shopping", "Entertainment", "Other"}

type (
	Money struct {
		Cents int64
	}

	Expense struct {
		ID       int64 // assigned by storage on insert, never reused
		Title    string
		Amount   Money
		Category string
		Date     string // ISO date, YYYY-MM-DD
	}
)

var (
	ErrEmptyTitle    = errors.New("empty title")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidDate   = errors.New("invalid date")
)

const dateLayout = "2006-01-02"

// Today returns the current date in ISO form, in the server's local time.
// Expenses are stamped with the user's own day rather than UTC, matching
// how a single-user local tool is actually used.
func Today() string {
	return time.Now().Format(dateLayout)
}

// ValidDate reports whether s is a well-formed ISO date.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if !ValidDate(e.Date) {
		return ErrInvalidDate
	}
	return nil
}
