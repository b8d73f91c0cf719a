package repository

import (
	"context"
	"encoding/json"

	"booking-engine/internal/infra"
	"booking-engine/internal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const insertAuditEventQuery = `
INSERT INTO audit_events (id, kind, reservation_id, resource_id, actor_id, detail, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())`

// AuditStore appends outcome events; rows are never updated or deleted.
type AuditStore struct {
	pool *pgxpool.Pool
}

func NewAuditStore(pool *pgxpool.Pool) *AuditStore {
	return &AuditStore{pool: pool}
}

func (s *AuditStore) Record(ctx context.Context, event usecase.AuditEvent) error {
	detail, err := json.Marshal(event.Detail)
	if err != nil {
		return infra.WrapRepoErr("failed to encode audit detail", err)
	}

	if _, err := s.pool.Exec(ctx, insertAuditEventQuery,
		uuid.New(),
		event.Kind,
		event.ReservationID,
		event.ResourceID,
		event.ActorID,
		detail,
	); err != nil {
		return infra.WrapRepoErr("failed to record audit event", err)
	}
	return nil
}
