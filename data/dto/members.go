package dto

import "github.com/emzola/libraria/data"

// CreateMemberRequestBody defines the request body for CreateMember service.
type CreateMemberRequestBody struct {
	MemberID string `json:"member_id"`
	NIC      string `json:"nic"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// UpdateMemberRequestBody defines the request body for UpdateMember service.
type UpdateMemberRequestBody struct {
	MemberID *string `json:"member_id"`
	NIC      *string `json:"nic"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

// QsListMembers defines the query strings used for listing members.
type QsListMembers struct {
	Search  string
	Filters data.Filters
}
