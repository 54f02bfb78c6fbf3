package pgsql

import (
	"context"

	"github.com/SscSPs/audit_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
	"github.com/SscSPs/audit_portal/internal/models"
	"github.com/SscSPs/audit_portal/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLoginEventRepository struct {
	BaseRepository
}

func newPgxLoginEventRepository(db *pgxpool.Pool) *PgxLoginEventRepository {
	return &PgxLoginEventRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.LoginEventRepository = (*PgxLoginEventRepository)(nil)

func (r *PgxLoginEventRepository) SaveLoginEvent(ctx context.Context, event domain.LoginEvent) error {
	m := mapping.ToModelLoginEvent(event)
	query := `
		INSERT INTO login_events (event_id, account_id, email, name, role, outcome, ip_address, user_agent, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EventID,
		m.AccountID,
		m.Email,
		m.Name,
		m.Role,
		m.Outcome,
		m.IPAddress,
		m.UserAgent,
		m.OccurredAt,
	)
	return wrapError("failed to save login event", err)
}

func (r *PgxLoginEventRepository) ListLoginEvents(ctx context.Context, limit int, offset int) ([]domain.LoginEvent, error) {
	// Default limit if not specified or invalid
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT event_id, account_id, email, name, role, outcome, ip_address, user_agent, occurred_at
		FROM login_events
		ORDER BY occurred_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, wrapError("failed to query login events", err)
	}
	defer rows.Close()

	events := []domain.LoginEvent{}
	for rows.Next() {
		var m models.LoginEvent
		if err := rows.Scan(
			&m.EventID,
			&m.AccountID,
			&m.Email,
			&m.Name,
			&m.Role,
			&m.Outcome,
			&m.IPAddress,
			&m.UserAgent,
			&m.OccurredAt,
		); err != nil {
			return nil, wrapError("failed to scan login event row", err)
		}
		events = append(events, mapping.ToDomainLoginEvent(m))
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("error iterating login event rows", err)
	}
	return events, nil
}
