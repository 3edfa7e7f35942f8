package data

import "time"

const (
	ActionLend   = "LEND"
	ActionReturn = "RETURN"
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionImport = "IMPORT"
	ActionExport = "EXPORT"
	ActionLogin  = "LOGIN"
)

const (
	EntityBook    = "book"
	EntityMember  = "member"
	EntityLending = "lending"
	EntityStaff   = "staff"
	EntityReport  = "report"
)

// AuditActions and AuditEntities list the values accepted by the audit log filters.
var (
	AuditActions  = []string{ActionLend, ActionReturn, ActionCreate, ActionUpdate, ActionDelete, ActionImport, ActionExport, ActionLogin}
	AuditEntities = []string{EntityBook, EntityMember, EntityLending, EntityStaff, EntityReport}
)

// AuditEntry records who did what to which entity.
type AuditEntry struct {
	ID        int64          `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	ActorID   *int64         `json:"actor_id"`
	ActorName string         `json:"actor_name"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  int64          `json:"entity_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// NewAuditEntry returns an entry attributed to actor. A nil or anonymous
// actor is recorded as the system.
func NewAuditEntry(actor *Staff, action, entity string, entityID int64) *AuditEntry {
	entry := &AuditEntry{
		ActorName: "system",
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   map[string]any{},
	}
	if actor != nil && !actor.IsAnonymous() {
		id := actor.ID
		entry.ActorID = &id
		entry.ActorName = actor.Name
	}
	return entry
}

var AuditSortSafeList = []string{"created_at", "-created_at", "id", "-id"}
