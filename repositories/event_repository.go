package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/bracket-builder/models"
	"github.com/lib/pq"
)

var (
	ErrEventNotFound          = errors.New("event not found")
	ErrCompetitorPositionUsed = errors.New("competitor position already used in this event")
)

type EventRepository interface {
	// Create stores the event together with its roster in one transaction.
	Create(ctx context.Context, event *models.Event, competitors []*models.Competitor) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context) ([]*models.Event, error)
	Delete(ctx context.Context, id int) error
}

type sqlEventRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &sqlEventRepository{db: db, now: time.Now}
}

func (r *sqlEventRepository) Create(ctx context.Context, e *models.Event, competitors []*models.Competitor) error {
	if e.Title == "" {
		e.Title = models.DefaultEventTitle
	}
	createdAt := r.now().UTC().Truncate(time.Second)

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `INSERT INTO events (title, source_url, created_at) VALUES ($1, $2, $3) RETURNING id`
		if err := tx.QueryRowContext(ctx, query, e.Title, e.SourceURL, createdAt).Scan(&e.ID); err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		if err := insertCompetitors(ctx, tx, e.ID, competitors); err != nil {
			return err
		}
		e.CreatedAt = createdAt
		e.CompetitorCount = len(competitors)
		return nil
	})
}

func (r *sqlEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `
		SELECT e.id, e.title, e.source_url, e.created_at,
		       (SELECT COUNT(*) FROM competitors c WHERE c.event_id = e.id)
		FROM events e
		WHERE e.id = $1`

	e := &models.Event{}
	err := scanEvent(r.db.QueryRowContext(ctx, query, id), e)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return e, nil
}

func (r *sqlEventRepository) List(ctx context.Context) ([]*models.Event, error) {
	query := `
		SELECT e.id, e.title, e.source_url, e.created_at,
		       (SELECT COUNT(*) FROM competitors c WHERE c.event_id = e.id)
		FROM events e
		ORDER BY e.created_at DESC, e.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		e := &models.Event{}
		if err := scanEvent(rows, e); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

func (r *sqlEventRepository) Delete(ctx context.Context, id int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM competitors WHERE event_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete competitors of event %d: %w", id, err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete event %d: %w", id, err)
		}
		return checkAffectedRows(result, ErrEventNotFound)
	})
}

func scanEvent(rowScanner interface {
	Scan(dest ...interface{}) error
}, e *models.Event) error {
	var sourceURL sql.NullString
	if err := rowScanner.Scan(&e.ID, &e.Title, &sourceURL, &e.CreatedAt, &e.CompetitorCount); err != nil {
		return err
	}
	if sourceURL.Valid {
		e.SourceURL = &sourceURL.String
	}
	return nil
}

func handleCompetitorError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "competitors_event_id_position_key" {
				return ErrCompetitorPositionUsed
			}
		case "23503": // foreign_key_violation
			if pqErr.Constraint == "competitors_event_id_fkey" {
				return ErrEventNotFound
			}
		}
	}
	return err
}
