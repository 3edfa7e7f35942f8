package repository

import (
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/emzola/libraria/data"
)

type audit interface {
	CreateAudit(entry *data.AuditEntry) error
	GetAllAudit(action, entity string, filters data.Filters) ([]*data.AuditEntry, data.Metadata, error)
}

// insertAudit writes entry using q, which may be the pool or an open transaction.
func insertAudit(ctx context.Context, q querier, entry *data.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO audit_entries (actor_id, actor_name, action, entity, entity_id, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	args := []any{entry.ActorID, entry.ActorName, entry.Action, entry.Entity, entry.EntityID, details}
	return q.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt)
}

// CreateAudit records an audit entry outside of any other write.
func (r *repository) CreateAudit(entry *data.AuditEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return insertAudit(ctx, r.db, entry)
}

// GetAllAudit retrieves a paginated list of audit entries, newest first unless
// filters say otherwise.
func (r *repository) GetAllAudit(action, entity string, filters data.Filters) ([]*data.AuditEntry, data.Metadata, error) {
	b := psql.Select("count(*) OVER()", "id", "created_at", "actor_id", "actor_name", "action", "entity", "entity_id", "details").
		From("audit_entries").
		OrderBy(filters.SortColumn()+" "+filters.SortDirection(), "id DESC").
		Limit(uint64(filters.Limit())).
		Offset(uint64(filters.Offset()))
	if action != "" {
		b = b.Where(sq.Eq{"action": action})
	}
	if entity != "" {
		b = b.Where(sq.Eq{"entity": entity})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, data.Metadata{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	entries := []*data.AuditEntry{}
	for rows.Next() {
		var entry data.AuditEntry
		var details []byte
		err := rows.Scan(
			&totalRecords,
			&entry.ID,
			&entry.CreatedAt,
			&entry.ActorID,
			&entry.ActorName,
			&entry.Action,
			&entry.Entity,
			&entry.EntityID,
			&details,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, data.Metadata{}, err
			}
		}
		entries = append(entries, &entry)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return entries, metadata, nil
}
