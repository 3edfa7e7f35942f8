package data

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Fines are sent to clients as JSON numbers rather than quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// LendingStatus is derived from a lending record and the current time.
type LendingStatus string

const (
	StatusActive   LendingStatus = "active"
	StatusOverdue  LendingStatus = "overdue"
	StatusReturned LendingStatus = "returned"
)

// Lending defines one copy of a book on loan to a member. A record is created
// open and closed exactly once by a return.
type Lending struct {
	ID          int64               `json:"id"`
	Book        Book                `json:"book"`
	Member      Member              `json:"member"`
	LendDate    time.Time           `json:"lend_date"`
	DueDate     time.Time           `json:"due_date"`
	ReturnDate  *time.Time          `json:"return_date"`
	IsReturned  bool                `json:"is_returned"`
	FineAmount  decimal.NullDecimal `json:"fine_amount"`
	Status      LendingStatus       `json:"status"`
	DaysOverdue int                 `json:"days_overdue"`
	Version     int32               `json:"-"`
}

// Status reports whether l is active, overdue or returned at now.
func Status(l *Lending, now time.Time) LendingStatus {
	switch {
	case l.IsReturned:
		return StatusReturned
	case now.After(l.DueDate):
		return StatusOverdue
	default:
		return StatusActive
	}
}

// DaysOverdue returns the number of whole days an open record is past its
// due date, or 0 when it is not overdue.
func DaysOverdue(l *Lending, now time.Time) int {
	if Status(l, now) != StatusOverdue {
		return 0
	}
	return int(now.Sub(l.DueDate) / day)
}

// Annotate fills in the derived Status and DaysOverdue fields.
func Annotate(now time.Time, lendings ...*Lending) {
	for _, l := range lendings {
		l.Status = Status(l, now)
		l.DaysOverdue = DaysOverdue(l, now)
	}
}
