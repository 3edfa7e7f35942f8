package data

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// Rounding selects how a partial day of lateness is counted.
type Rounding string

const (
	// RoundCeil counts any started day as a full day late.
	RoundCeil Rounding = "ceil"
	// RoundFloor counts whole days only, with a minimum of one day when late at all.
	RoundFloor Rounding = "floor"
)

// Policy holds the lending rules: loan period, fine rate and rounding.
type Policy struct {
	LoanPeriod      time.Duration
	FinePerDay      decimal.Decimal
	Rounding        Rounding
	MaxOpenLendings int
}

// NewPolicy builds a Policy from configuration values.
func NewPolicy(loanDays int, finePerDay, rounding string, maxOpenLendings int) (Policy, error) {
	if loanDays < 1 {
		return Policy{}, fmt.Errorf("loan period must be at least one day, got %d", loanDays)
	}
	fine, err := decimal.NewFromString(finePerDay)
	if err != nil {
		return Policy{}, fmt.Errorf("fine per day: %w", err)
	}
	if fine.IsNegative() {
		return Policy{}, fmt.Errorf("fine per day must not be negative, got %s", fine)
	}
	r := Rounding(rounding)
	if r != RoundCeil && r != RoundFloor {
		return Policy{}, fmt.Errorf("unknown rounding %q", rounding)
	}
	return Policy{
		LoanPeriod:      time.Duration(loanDays) * day,
		FinePerDay:      fine,
		Rounding:        r,
		MaxOpenLendings: max(maxOpenLendings, 0),
	}, nil
}

// DueDate returns the due date of a book lent at lendDate.
func (p Policy) DueDate(lendDate time.Time) time.Time {
	return lendDate.Add(p.LoanPeriod)
}

// DaysLate returns how many days late a return at returned is.
func (p Policy) DaysLate(due, returned time.Time) int {
	if !returned.After(due) {
		return 0
	}
	late := returned.Sub(due)
	days := int(late / day)
	switch p.Rounding {
	case RoundFloor:
		if days == 0 {
			days = 1
		}
	default:
		if late%day != 0 {
			days++
		}
	}
	return days
}

// Fine returns the fine for a return at returned, rounded to cents, or an
// invalid NullDecimal when nothing is owed.
func (p Policy) Fine(due, returned time.Time) decimal.NullDecimal {
	days := p.DaysLate(due, returned)
	if days == 0 {
		return decimal.NullDecimal{}
	}
	fine := p.FinePerDay.Mul(decimal.NewFromInt(int64(days))).Round(2)
	if !fine.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(fine)
}

// Settle closes l as returned at now and charges the fine, if any.
func (p Policy) Settle(l *Lending, now time.Time) {
	returned := now
	l.ReturnDate = &returned
	l.IsReturned = true
	l.FineAmount = p.Fine(l.DueDate, returned)
}
