package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"

	"github.com/tutorbook/tutorbook-api/internal/availability"
	"github.com/tutorbook/tutorbook-api/internal/models"
)

const matchColumns = `id, org, status, subjects, people, creator, message, time, created_at, updated_at`

// MatchRepository provides database access for matches.
type MatchRepository struct {
	db *sqlx.DB
}

// NewMatchRepository creates a new MatchRepository.
func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

type matchRow struct {
	ID        string             `db:"id"`
	Org       string             `db:"org"`
	Status    string             `db:"status"`
	Subjects  pq.StringArray     `db:"subjects"`
	People    types.JSONText     `db:"people"`
	Creator   types.JSONText     `db:"creator"`
	Message   string             `db:"message"`
	Time      types.NullJSONText `db:"time"`
	CreatedAt time.Time          `db:"created_at"`
	UpdatedAt time.Time          `db:"updated_at"`
}

func (r matchRow) toModel() (models.Match, error) {
	m := models.Match{
		Resource: models.Resource{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
		ID:       r.ID,
		Org:      r.Org,
		Status:   models.MatchStatus(r.Status),
		Subjects: []string(r.Subjects),
		Message:  r.Message,
	}
	if len(r.People) > 0 {
		if err := r.People.Unmarshal(&m.People); err != nil {
			return models.Match{}, fmt.Errorf("decode people for match %s: %w", r.ID, err)
		}
	}
	if len(r.Creator) > 0 {
		if err := r.Creator.Unmarshal(&m.Creator); err != nil {
			return models.Match{}, fmt.Errorf("decode creator for match %s: %w", r.ID, err)
		}
	}
	if r.Time.Valid && len(r.Time.JSONText) > 0 && string(r.Time.JSONText) != "null" {
		var w availability.TimeWindow
		if err := r.Time.JSONText.Unmarshal(&w); err != nil {
			return models.Match{}, fmt.Errorf("decode time for match %s: %w", r.ID, err)
		}
		m.Time = &w
	}
	return m, nil
}

// FindByID returns a match by identifier.
func (r *MatchRepository) FindByID(ctx context.Context, id string) (*models.Match, error) {
	const query = `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 LIMIT 1`
	var row matchRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find match by id: %w", err)
	}
	m, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByPerson returns every match that lists userID among its people,
// oldest first.
func (r *MatchRepository) ListByPerson(ctx context.Context, userID string) ([]models.Match, error) {
	filter, err := json.Marshal([]map[string]string{{"id": userID}})
	if err != nil {
		return nil, fmt.Errorf("encode people filter: %w", err)
	}
	const query = `SELECT ` + matchColumns + ` FROM matches WHERE people @> $1::jsonb ORDER BY created_at ASC`
	var rows []matchRow
	if err := r.db.SelectContext(ctx, &rows, query, string(filter)); err != nil {
		return nil, fmt.Errorf("list matches by person: %w", err)
	}
	matches := make([]models.Match, 0, len(rows))
	for _, row := range rows {
		m, err := row.toModel()
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, nil
}
