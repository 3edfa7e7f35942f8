package data

import (
	"errors"
	"time"

	"github.com/emzola/libraria/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin     = "admin"
	RoleLibrarian = "librarian"
)

var AnonymousStaff = &Staff{}

// IsAnonymous reports whether s is the anonymous staff member set for
// unauthenticated requests.
func (s *Staff) IsAnonymous() bool {
	return s == AnonymousStaff
}

// Staff defines a staff account allowed to operate the library.
type Staff struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  password  `json:"-"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	Version   int32     `json:"-"`
}

// password defines the plaintext and hashed versions of a staff password.
// Plaintext is a pointer to tell "not set" apart from the empty string.
type password struct {
	Plaintext *string
	Hash      []byte
}

// Set calculates the bcrypt hash of a plaintext password.
func (p *password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), 12)
	if err != nil {
		return err
	}
	p.Plaintext = &plaintextPassword
	p.Hash = hash
	return nil
}

// Matches checks whether the plaintext password matches the stored hash.
func (p *password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.Hash, []byte(plaintextPassword))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

func ValidateEmail(v *validator.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(validator.Matches(email, validator.EmailRX), "email", "must be a valid email address")
}

func ValidatePasswordPlaintext(v *validator.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 bytes long")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}

func ValidateStaff(v *validator.Validator, staff *Staff) {
	v.Check(staff.Name != "", "name", "must be provided")
	v.Check(len(staff.Name) <= 500, "name", "must not be more than 500 bytes long")
	ValidateEmail(v, staff.Email)
	v.Check(validator.PermittedValue(staff.Role, RoleAdmin, RoleLibrarian), "role", "must be admin or librarian")
	if staff.Password.Plaintext != nil {
		ValidatePasswordPlaintext(v, *staff.Password.Plaintext)
	}
	if staff.Password.Hash == nil {
		panic("missing password hash for staff")
	}
}

var StaffSortSafeList = []string{"id", "name", "email", "-id", "-name", "-email"}
