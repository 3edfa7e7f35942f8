package dto

import "github.com/emzola/libraria/data"

// LendBookRequestBody defines the request body for LendBook service. Exactly one of
// MemberID and NIC identifies the borrower.
type LendBookRequestBody struct {
	MemberID string `json:"member_id"`
	NIC      string `json:"nic"`
	Isbn     string `json:"isbn"`
}

// QsListLendings defines the query strings used for listing lendings.
type QsListLendings struct {
	Search  string
	Status  string
	Filters data.Filters
}

// QsListReturnedOverdue defines the query strings used for the fine reconciliation list.
type QsListReturnedOverdue struct {
	Filters data.Filters
}
