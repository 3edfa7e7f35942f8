package dto

import "github.com/emzola/libraria/data"

// CreateStaffRequestBody defines the request body for CreateStaff service.
type CreateStaffRequestBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateStaffRequestBody defines the request body for UpdateStaff service.
type UpdateStaffRequestBody struct {
	Name   *string `json:"name"`
	Role   *string `json:"role"`
	Active *bool   `json:"active"`
}

// QsListStaff defines the query strings used for listing staff accounts.
type QsListStaff struct {
	Filters data.Filters
}

// QsListAudit defines the query strings used for listing audit entries.
type QsListAudit struct {
	Action  string
	Entity  string
	Filters data.Filters
}
