package data

import (
	"strings"

	"github.com/emzola/libraria/internal/validator"
)

// BorrowerIdentifier identifies the member a book is lent to. It is either a
// MemberCode or a NIC, never both.
type BorrowerIdentifier interface {
	Field() string
	Value() string
}

// MemberCode identifies a borrower by the member ID printed on their card.
type MemberCode string

func (c MemberCode) Field() string { return "member_id" }
func (c MemberCode) Value() string { return string(c) }

// NIC identifies a borrower by national identity code.
type NIC string

func (n NIC) Field() string { return "nic" }
func (n NIC) Value() string { return string(n) }

// ParseBorrowerIdentifier builds the identifier from the two optional request
// fields. When both are supplied the member ID takes precedence.
func ParseBorrowerIdentifier(v *validator.Validator, memberID, nic string) BorrowerIdentifier {
	memberID = strings.TrimSpace(memberID)
	nic = strings.TrimSpace(nic)
	switch {
	case memberID != "":
		return MemberCode(memberID)
	case nic != "":
		return NIC(nic)
	}
	v.AddError("member_id", "either member_id or nic must be provided")
	return nil
}
