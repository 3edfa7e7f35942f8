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

type members interface {
	CreateMember(actor *data.Staff, requestBody dto.CreateMemberRequestBody) (*data.Member, error)
	GetMember(memberID int64) (*data.Member, error)
	ListMembers(qs dto.QsListMembers) ([]*data.Member, data.Metadata, error)
	UpdateMember(actor *data.Staff, memberID int64, requestBody dto.UpdateMemberRequestBody) (*data.Member, error)
	DeleteMember(actor *data.Staff, memberID int64) error
}

// CreateMember service registers a new library member.
func (s *service) CreateMember(actor *data.Staff, requestBody dto.CreateMemberRequestBody) (*data.Member, error) {
	member := &data.Member{
		MemberID: strings.TrimSpace(requestBody.MemberID),
		NIC:      strings.ToUpper(strings.TrimSpace(requestBody.NIC)),
		Name:     strings.TrimSpace(requestBody.Name),
		Email:    strings.TrimSpace(requestBody.Email),
		Phone:    strings.TrimSpace(requestBody.Phone),
		Address:  strings.TrimSpace(requestBody.Address),
	}
	v := validator.New()
	if data.ValidateMember(v, member); !v.Valid() {
		return nil, failedValidation(v)
	}
	err := s.repo.CreateMember(member)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("member_id", "a member with this member_id or nic already exists")
			return nil, fmt.Errorf("%w: %w", ErrDuplicateRecord, failedValidation(v))
		default:
			return nil, err
		}
	}
	s.recordAudit(data.NewAuditEntry(actor, data.ActionCreate, data.EntityMember, member.ID))
	return member, nil
}

// GetMember service retrieves the details of a member.
func (s *service) GetMember(memberID int64) (*data.Member, error) {
	member, err := s.repo.GetMember(memberID)
	if err != nil {
		return nil, translate(err)
	}
	return member, nil
}

// ListMembers service retrieves a paginated list of members.
func (s *service) ListMembers(qs dto.QsListMembers) ([]*data.Member, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v)
	}
	return s.repo.GetAllMembers(strings.TrimSpace(qs.Search), qs.Filters)
}

// UpdateMember service updates the details of a member.
func (s *service) UpdateMember(actor *data.Staff, memberID int64, requestBody dto.UpdateMemberRequestBody) (*data.Member, error) {
	member, err := s.repo.GetMember(memberID)
	if err != nil {
		return nil, translate(err)
	}
	if requestBody.MemberID != nil {
		member.MemberID = strings.TrimSpace(*requestBody.MemberID)
	}
	if requestBody.NIC != nil {
		member.NIC = strings.ToUpper(strings.TrimSpace(*requestBody.NIC))
	}
	if requestBody.Name != nil {
		member.Name = strings.TrimSpace(*requestBody.Name)
	}
	if requestBody.Email != nil {
		member.Email = strings.TrimSpace(*requestBody.Email)
	}
	if requestBody.Phone != nil {
		member.Phone = strings.TrimSpace(*requestBody.Phone)
	}
	if requestBody.Address != nil {
		member.Address = strings.TrimSpace(*requestBody.Address)
	}
	v := validator.New()
	if data.ValidateMember(v, member); !v.Valid() {
		return nil, failedValidation(v)
	}
	err = s.repo.UpdateMember(member)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("member_id", "a member with this member_id or nic already exists")
			return nil, fmt.Errorf("%w: %w", ErrDuplicateRecord, failedValidation(v))
		default:
			return nil, translate(err)
		}
	}
	s.recordAudit(data.NewAuditEntry(actor, data.ActionUpdate, data.EntityMember, member.ID))
	return member, nil
}

// DeleteMember service removes a member. Members holding books cannot be deleted.
func (s *service) DeleteMember(actor *data.Staff, memberID int64) error {
	open, err := s.repo.CountOpenLendingsForMember(memberID)
	if err != nil {
		return err
	}
	if open > 0 {
		return fmt.Errorf("%w: member holds %d books", ErrOpenLendings, open)
	}
	err = s.repo.DeleteMember(memberID)
	if err != nil {
		return translate(err)
	}
	s.recordAudit(data.NewAuditEntry(actor, data.ActionDelete, data.EntityMember, memberID))
	return nil
}
