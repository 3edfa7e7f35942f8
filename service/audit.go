package service

import (
	"github.com/emzola/libraria/data"
	"github.com/emzola/libraria/data/dto"
	"github.com/emzola/libraria/internal/validator"
)

type auditLog interface {
	ListAudit(qs dto.QsListAudit) ([]*data.AuditEntry, data.Metadata, error)
}

// ListAudit service retrieves a paginated list of audit entries.
func (s *service) ListAudit(qs dto.QsListAudit) ([]*data.AuditEntry, data.Metadata, error) {
	v := validator.New()
	data.ValidateFilters(v, qs.Filters)
	if qs.Action != "" {
		v.Check(validator.PermittedValue(qs.Action, data.AuditActions...), "action", "invalid action")
	}
	if qs.Entity != "" {
		v.Check(validator.PermittedValue(qs.Entity, data.AuditEntities...), "entity", "invalid entity")
	}
	if !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v)
	}
	return s.repo.GetAllAudit(qs.Action, qs.Entity, qs.Filters)
}
