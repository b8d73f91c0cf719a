package repository

import (
	"context"
	"encoding/json"
	"errors"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/user"
	"booking-engine/internal/infra"
	"booking-engine/internal/usecase"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const currentSettingsQuery = `
SELECT maintenance_mode, min_notice_minutes, max_duration_hours, max_advance_days,
       role_weights, urgency_weights
FROM app_settings
WHERE id = 1`

// SettingsStore reads the single-row operational settings and priority
// weights. Each call returns a fresh snapshot; the booking transaction
// captures it once and never re-reads mid-flight.
type SettingsStore struct {
	pool *pgxpool.Pool
}

func NewSettingsStore(pool *pgxpool.Pool) *SettingsStore {
	return &SettingsStore{pool: pool}
}

func (s *SettingsStore) Current(ctx context.Context) (*usecase.SettingsSnapshot, error) {
	var (
		cfg                 usecase.OperationalConfig
		roleRaw, urgencyRaw []byte
	)

	err := s.pool.QueryRow(ctx, currentSettingsQuery).Scan(
		&cfg.MaintenanceMode,
		&cfg.MinBookingNoticeMinutes,
		&cfg.MaxBookingDurationHours,
		&cfg.MaxAdvanceDays,
		&roleRaw,
		&urgencyRaw,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No settings row yet: fall back to the seed defaults.
			return &usecase.SettingsSnapshot{
				Config:  defaultOperationalConfig(),
				Weights: booking.DefaultPriorityWeights(),
			}, nil
		}
		return nil, infra.WrapRepoErr("failed to load settings", err)
	}

	weights, err := decodeWeights(roleRaw, urgencyRaw)
	if err != nil {
		return nil, err
	}

	return &usecase.SettingsSnapshot{Config: cfg, Weights: weights}, nil
}

func decodeWeights(roleRaw, urgencyRaw []byte) (booking.PriorityWeights, error) {
	var roleWeights map[user.Role]int
	if err := json.Unmarshal(roleRaw, &roleWeights); err != nil {
		return booking.PriorityWeights{}, infra.WrapRepoErr("malformed role weights", err)
	}
	var urgencyWeights map[booking.Urgency]int
	if err := json.Unmarshal(urgencyRaw, &urgencyWeights); err != nil {
		return booking.PriorityWeights{}, infra.WrapRepoErr("malformed urgency weights", err)
	}

	return booking.PriorityWeights{
		RoleWeights:    roleWeights,
		UrgencyWeights: urgencyWeights,
	}, nil
}

func defaultOperationalConfig() usecase.OperationalConfig {
	return usecase.OperationalConfig{
		MaintenanceMode:         false,
		MinBookingNoticeMinutes: 15,
		MaxBookingDurationHours: 8,
		MaxAdvanceDays:          60,
	}
}
