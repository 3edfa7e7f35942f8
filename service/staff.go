package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emzola/libraria/data"
	"github.com/emzola/libraria/data/dto"
	"github.com/emzola/libraria/internal/validator"
	"github.com/emzola/libraria/repository"
)

type staff interface {
	CreateStaff(actor *data.Staff, requestBody dto.CreateStaffRequestBody) (*data.Staff, error)
	GetStaff(staffID int64) (*data.Staff, error)
	ListStaff(qs dto.QsListStaff) ([]*data.Staff, data.Metadata, error)
	UpdateStaff(actor *data.Staff, staffID int64, requestBody dto.UpdateStaffRequestBody) (*data.Staff, error)
	EnsureAdmin() error
}

// CreateStaff service creates a staff account.
func (s *service) CreateStaff(actor *data.Staff, requestBody dto.CreateStaffRequestBody) (*data.Staff, error) {
	account := &data.Staff{
		Name:   strings.TrimSpace(requestBody.Name),
		Email:  strings.TrimSpace(requestBody.Email),
		Role:   requestBody.Role,
		Active: true,
	}
	if account.Role == "" {
		account.Role = data.RoleLibrarian
	}
	v := validator.New()
	if data.ValidatePasswordPlaintext(v, requestBody.Password); !v.Valid() {
		return nil, failedValidation(v)
	}
	err := account.Password.Set(requestBody.Password)
	if err != nil {
		return nil, err
	}
	if data.ValidateStaff(v, account); !v.Valid() {
		return nil, failedValidation(v)
	}
	err = s.repo.CreateStaff(account)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("email", "a staff account with this email address already exists")
			return nil, fmt.Errorf("%w: %w", ErrDuplicateRecord, failedValidation(v))
		default:
			return nil, err
		}
	}
	entry := data.NewAuditEntry(actor, data.ActionCreate, data.EntityStaff, account.ID)
	entry.Details["role"] = account.Role
	s.recordAudit(entry)
	return account, nil
}

// GetStaff service retrieves a staff account.
func (s *service) GetStaff(staffID int64) (*data.Staff, error) {
	account, err := s.repo.GetStaffByID(staffID)
	if err != nil {
		return nil, translate(err)
	}
	return account, nil
}

// ListStaff service retrieves a paginated list of staff accounts.
func (s *service) ListStaff(qs dto.QsListStaff) ([]*data.Staff, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v)
	}
	return s.repo.GetAllStaff("", qs.Filters)
}

// UpdateStaff service changes the name, role or active flag of a staff
// account. Staff cannot demote or deactivate themselves.
func (s *service) UpdateStaff(actor *data.Staff, staffID int64, requestBody dto.UpdateStaffRequestBody) (*data.Staff, error) {
	account, err := s.repo.GetStaffByID(staffID)
	if err != nil {
		return nil, translate(err)
	}
	if requestBody.Name != nil {
		account.Name = strings.TrimSpace(*requestBody.Name)
	}
	if requestBody.Role != nil {
		account.Role = *requestBody.Role
	}
	if requestBody.Active != nil {
		account.Active = *requestBody.Active
	}
	if actor.ID == account.ID && (!account.Active || account.Role != actor.Role) {
		return nil, ErrNotPermitted
	}
	v := validator.New()
	if data.ValidateStaff(v, account); !v.Valid() {
		return nil, failedValidation(v)
	}
	err = s.repo.UpdateStaff(account)
	if err != nil {
		return nil, translate(err)
	}
	if !account.Active {
		if err := s.repo.DeleteAllTokensForStaff(data.ScopeRefresh, account.ID); err != nil {
			return nil, err
		}
	}
	s.recordAudit(data.NewAuditEntry(actor, data.ActionUpdate, data.EntityStaff, account.ID))
	return account, nil
}

// EnsureAdmin creates the configured administrator account when no staff
// account exists yet.
func (s *service) EnsureAdmin() error {
	n, err := s.repo.CountStaff()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if s.config.Admin.Email == "" || s.config.Admin.Password == "" {
		s.logger.PrintInfo("no staff accounts and no admin configured", nil)
		return nil
	}
	admin, err := s.CreateStaff(nil, dto.CreateStaffRequestBody{
		Name:     s.config.Admin.Name,
		Email:    s.config.Admin.Email,
		Password: s.config.Admin.Password,
		Role:     data.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	s.logger.PrintInfo("created admin account", map[string]string{"email": admin.Email})
	return nil
}
