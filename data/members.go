package data

import (
	"time"

	"github.com/emzola/libraria/internal/validator"
)

// Member defines a library member (reader) who can borrow books.
type Member struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	MemberID  string    `json:"member_id"`
	NIC       string    `json:"nic"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Version   int32     `json:"-"`
}

func ValidateMember(v *validator.Validator, member *Member) {
	v.Check(member.MemberID != "", "member_id", "must be provided")
	v.Check(len(member.MemberID) <= 50, "member_id", "must not be more than 50 bytes long")
	v.Check(member.NIC != "", "nic", "must be provided")
	v.Check(len(member.NIC) <= 20, "nic", "must not be more than 20 bytes long")
	v.Check(member.Name != "", "name", "must be provided")
	v.Check(len(member.Name) <= 500, "name", "must not be more than 500 bytes long")
	if member.Email != "" {
		v.Check(validator.Matches(member.Email, validator.EmailRX), "email", "must be a valid email address")
	}
	v.Check(len(member.Phone) <= 30, "phone", "must not be more than 30 bytes long")
	v.Check(len(member.Address) <= 1000, "address", "must not be more than 1000 bytes long")
}

// MemberSortSafeList lists the accepted values of the sort query parameter for members.
var MemberSortSafeList = []string{"id", "name", "member_id", "-id", "-name", "-member_id"}
