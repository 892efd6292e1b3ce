package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sahakari/coop_backend/internal/apperrors"
	"github.com/sahakari/coop_backend/internal/core/domain"
	portsrepo "github.com/sahakari/coop_backend/internal/core/ports/repositories"
	"github.com/sahakari/coop_backend/internal/models"
	"github.com/sahakari/coop_backend/internal/utils/mapping"
)

const rateColumns = `
	rate_id, duration_months, rate, effective_from,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxRateRepository struct {
	BaseRepository
}

// newPgxRateRepository creates a new repository for the interest rate table.
func newPgxRateRepository(pool *pgxpool.Pool) portsrepo.RateRepositoryFacade {
	return &PgxRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxRateRepository implements portsrepo.RateRepositoryFacade
var _ portsrepo.RateRepositoryFacade = (*PgxRateRepository)(nil)

func scanRate(row pgx.Row) (*models.InterestRate, error) {
	var m models.InterestRate
	err := row.Scan(
		&m.RateID,
		&m.DurationMonths,
		&m.Rate,
		&m.EffectiveFrom,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindRateByDuration retrieves the rate entry for a loan duration.
func (r *PgxRateRepository) FindRateByDuration(ctx context.Context, durationMonths int) (*domain.InterestRate, error) {
	query := `SELECT ` + rateColumns + ` FROM interest_rates WHERE duration_months = $1;`

	m, err := scanRate(r.Pool.QueryRow(ctx, query, durationMonths))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find interest rate by duration", err)
	}

	rate := mapping.ToDomainInterestRate(*m)
	return &rate, nil
}

// ListRates retrieves all rate entries ordered by duration.
func (r *PgxRateRepository) ListRates(ctx context.Context) ([]domain.InterestRate, error) {
	query := `SELECT ` + rateColumns + ` FROM interest_rates ORDER BY duration_months ASC;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list interest rates", err)
	}
	defer rows.Close()

	var ms []models.InterestRate
	for rows.Next() {
		m, err := scanRate(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan interest rate row", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating interest rate rows", err)
	}
	return mapping.ToDomainInterestRateSlice(ms), nil
}

// UpsertRate creates or replaces the rate entry for a duration. Loans keep
// the rate they were created with; new requests pick up the replaced value.
func (r *PgxRateRepository) UpsertRate(ctx context.Context, rate domain.InterestRate) (*domain.InterestRate, error) {
	m := mapping.ToModelInterestRate(rate)
	query := `
		INSERT INTO interest_rates (
			rate_id, duration_months, rate, effective_from,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (duration_months) DO UPDATE SET
			rate = EXCLUDED.rate,
			effective_from = EXCLUDED.effective_from,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
		RETURNING ` + rateColumns + `;
	`

	saved, err := scanRate(r.Pool.QueryRow(ctx, query,
		m.RateID,
		m.DurationMonths,
		m.Rate,
		m.EffectiveFrom,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to upsert interest rate", err)
	}

	out := mapping.ToDomainInterestRate(*saved)
	return &out, nil
}
