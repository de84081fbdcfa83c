package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-builder/models"
)

// CompetitorRepository is the competitor source of the bracket builder.
// ListByEvent always returns competitors in registration order.
type CompetitorRepository interface {
	ListByEvent(ctx context.Context, eventID int) ([]*models.Competitor, error)
	// ReplaceForEvent swaps the whole roster of an event atomically.
	ReplaceForEvent(ctx context.Context, eventID int, competitors []*models.Competitor) error
}

type sqlCompetitorRepository struct {
	db *sql.DB
}

func NewCompetitorRepository(db *sql.DB) CompetitorRepository {
	return &sqlCompetitorRepository{db: db}
}

func (r *sqlCompetitorRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.Competitor, error) {
	if err := ensureEventExists(ctx, r.db, eventID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, team, professor, age_division, weight_division, belt, gender
		FROM competitors
		WHERE event_id = $1
		ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitors of event %d: %w", eventID, err)
	}
	defer rows.Close()

	competitors := make([]*models.Competitor, 0)
	for rows.Next() {
		c := &models.Competitor{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Team, &c.Professor, &c.AgeDivision, &c.WeightDivision, &c.Belt, &c.Gender); err != nil {
			return nil, fmt.Errorf("failed to scan competitor: %w", err)
		}
		competitors = append(competitors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate competitors: %w", err)
	}
	return competitors, nil
}

func (r *sqlCompetitorRepository) ReplaceForEvent(ctx context.Context, eventID int, competitors []*models.Competitor) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := ensureEventExists(ctx, tx, eventID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM competitors WHERE event_id = $1`, eventID); err != nil {
			return fmt.Errorf("failed to clear competitors of event %d: %w", eventID, err)
		}
		return insertCompetitors(ctx, tx, eventID, competitors)
	})
}

func ensureEventExists(ctx context.Context, exec SQLExecutor, eventID int) error {
	var id int
	err := exec.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1`, eventID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up event %d: %w", eventID, err)
	}
	return nil
}

// insertCompetitors stores competitors with their slice index as position
// and fills in the generated IDs.
func insertCompetitors(ctx context.Context, exec SQLExecutor, eventID int, competitors []*models.Competitor) error {
	query := `
		INSERT INTO competitors (event_id, position, name, team, professor, age_division, weight_division, belt, gender)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	for i, c := range competitors {
		if c == nil {
			return fmt.Errorf("competitor at position %d is nil", i+1)
		}
		err := exec.QueryRowContext(ctx, query,
			eventID, i, c.Name, c.Team, c.Professor, c.AgeDivision, c.WeightDivision, c.Belt, c.Gender,
		).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("failed to insert competitor %q: %w", c.Name, handleCompetitorError(err))
		}
	}
	return nil
}
