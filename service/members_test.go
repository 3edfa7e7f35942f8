package service

import (
	"testing"
	"time"

	"github.com/emzola/libraria/data"
	"github.com/emzola/libraria/data/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMember(t *testing.T) {
	now := time.Now()
	repo := newFakeRepo()
	s, _ := newTestService(t, testConfig(), repo, &now)

	member, err := s.CreateMember(librarian, dto.CreateMemberRequestBody{MemberID: " M-100 ", NIC: "123456789v", Name: "Ada Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "M-100", member.MemberID)
	assert.Equal(t, "123456789V", member.NIC)
	assert.Contains(t, repo.auditActions(), data.ActionCreate)

	tests := []struct {
		name    string
		body    dto.CreateMemberRequestBody
		wantErr []error
	}{
		{"duplicate member id", dto.CreateMemberRequestBody{MemberID: "M-100", NIC: "987654321V", Name: "Other"}, []error{ErrDuplicateRecord, ErrFailedValidation}},
		{"duplicate nic", dto.CreateMemberRequestBody{MemberID: "M-101", NIC: "123456789V", Name: "Other"}, []error{ErrDuplicateRecord, ErrFailedValidation}},
		{"missing fields", dto.CreateMemberRequestBody{}, []error{ErrFailedValidation}},
		{"bad email", dto.CreateMemberRequestBody{MemberID: "M-102", NIC: "111111111V", Name: "Other", Email: "nope"}, []error{ErrFailedValidation}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateMember(librarian, tt.body)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestUpdateMember(t *testing.T) {
	now := time.Now()
	repo := newFakeRepo()
	first := repo.addMember("M-001", "901234567V", "")
	repo.addMember("M-002", "851234567V", "")
	s, _ := newTestService(t, testConfig(), repo, &now)

	name := "Grace Hopper"
	member, err := s.UpdateMember(librarian, first.ID, dto.UpdateMemberRequestBody{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, member.Name)
	assert.Equal(t, "M-001", member.MemberID)
	assert.Equal(t, "901234567V", member.NIC)

	taken := "851234567v"
	_, err = s.UpdateMember(librarian, first.ID, dto.UpdateMemberRequestBody{NIC: &taken})
	assert.ErrorIs(t, err, ErrDuplicateRecord)

	empty := ""
	_, err = s.UpdateMember(librarian, first.ID, dto.UpdateMemberRequestBody{Name: &empty})
	assert.ErrorIs(t, err, ErrFailedValidation)

	_, err = s.UpdateMember(librarian, 999, dto.UpdateMemberRequestBody{Name: &name})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteMemberWithOpenLendings(t *testing.T) {
	now := time.Now()
	repo := newFakeRepo()
	repo.addBook(testIsbn, 1)
	member := repo.addMember("M-001", "901234567V", "")
	s, _ := newTestService(t, testConfig(), repo, &now)

	lending, err := s.LendBook(librarian, dto.LendBookRequestBody{MemberID: "M-001", Isbn: testIsbn})
	require.NoError(t, err)
	assert.ErrorIs(t, s.DeleteMember(librarian, member.ID), ErrOpenLendings)

	_, err = s.ReturnBook(librarian, lending.ID)
	require.NoError(t, err)
	require.NoError(t, s.DeleteMember(librarian, member.ID))
	assert.ErrorIs(t, s.DeleteMember(librarian, member.ID), ErrRecordNotFound)
	assert.Contains(t, repo.auditActions(), data.ActionDelete)

	_, err = s.GetMember(member.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
