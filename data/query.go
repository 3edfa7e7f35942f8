package data

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// LendingStatusFilters lists the accepted values of the status query parameter.
var LendingStatusFilters = []string{"all", "active", "overdue", "returned"}

// LendingSortSafeList lists the accepted values of the sort query parameter.
var LendingSortSafeList = []string{
	"id", "lend_date", "due_date", "return_date", "title",
	"-id", "-lend_date", "-due_date", "-return_date", "-title",
}

// LendingPredicate reports whether a record should be kept.
type LendingPredicate func(*Lending) bool

// FilterLendings returns the records for which keep returns true.
func FilterLendings(lendings []*Lending, keep LendingPredicate) []*Lending {
	kept := make([]*Lending, 0, len(lendings))
	for _, l := range lendings {
		if keep(l) {
			kept = append(kept, l)
		}
	}
	return kept
}

// WithStatus keeps records whose status at now equals status. "all" and the
// empty string keep everything.
func WithStatus(status string, now time.Time) LendingPredicate {
	if status == "" || status == "all" {
		return func(*Lending) bool { return true }
	}
	return func(l *Lending) bool {
		return Status(l, now) == LendingStatus(status)
	}
}

// SortLendings sorts records in place by the given sort key from
// LendingSortSafeList, breaking ties by id.
func SortLendings(lendings []*Lending, sort string) {
	column := strings.TrimPrefix(sort, "-")
	compare := lendingComparator(column)
	desc := strings.HasPrefix(sort, "-")
	slices.SortStableFunc(lendings, func(a, b *Lending) int {
		if column == "return_date" {
			if c := openLast(a, b); c != 0 {
				return c
			}
		}
		c := compare(a, b)
		if desc {
			c = -c
		}
		if c == 0 {
			return cmp.Compare(a.ID, b.ID)
		}
		return c
	})
}

func lendingComparator(column string) func(a, b *Lending) int {
	switch column {
	case "lend_date":
		return func(a, b *Lending) int { return a.LendDate.Compare(b.LendDate) }
	case "due_date":
		return func(a, b *Lending) int { return a.DueDate.Compare(b.DueDate) }
	case "return_date":
		return func(a, b *Lending) int {
			if a.ReturnDate == nil || b.ReturnDate == nil {
				return 0
			}
			return a.ReturnDate.Compare(*b.ReturnDate)
		}
	case "title":
		return func(a, b *Lending) int {
			return cmp.Compare(strings.ToLower(a.Book.Title), strings.ToLower(b.Book.Title))
		}
	default:
		return func(a, b *Lending) int { return cmp.Compare(a.ID, b.ID) }
	}
}

// openLast orders returned records before open ones regardless of the sort
// direction.
func openLast(a, b *Lending) int {
	switch {
	case a.ReturnDate == nil && b.ReturnDate != nil:
		return 1
	case a.ReturnDate != nil && b.ReturnDate == nil:
		return -1
	}
	return 0
}
