package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nagrathcare/clinic-api/internal/core/domain"
	"github.com/nagrathcare/clinic-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns the AuditService the dispatcher workers feed.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit entry.
func (s *auditService) Process(ctx context.Context, entry domain.AuditEntry) error {
	if entry.Action == "" || entry.EntityID == "" {
		return fmt.Errorf("audit entry missing action or entity id")
	}
	if err := s.repo.Insert(ctx, &entry); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	s.log.Debug().
		Str("action", entry.Action).
		Str("entity_id", entry.EntityID).
		Str("actor_id", entry.ActorID).
		Msg("audit entry recorded")
	return nil
}
