package domain

import "time"

// Audit actions recorded for admin and patient mutations.
const (
	AuditAdminCreated   = "admin.created"
	AuditAdminDeleted   = "admin.deleted"
	AuditPatientCreated = "patient.created"
	AuditPatientUpdated = "patient.updated"
	AuditPatientDeleted = "patient.deleted"
)

// AuditEntry records who did what to which entity. Entries are written
// asynchronously; losing one never fails the originating request.
type AuditEntry struct {
	ActorID   string    `json:"actor_id" bson:"actor_id"`
	ActorRole string    `json:"actor_role" bson:"actor_role"`
	Action    string    `json:"action" bson:"action"`
	EntityID  string    `json:"entity_id" bson:"entity_id"`
	At        time.Time `json:"at" bson:"at"`
}
