package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"

	"github.com/tutorbook/tutorbook-api/internal/availability"
	"github.com/tutorbook/tutorbook-api/internal/models"
)

const userColumns = `id, name, email, photo, bio, orgs, availability, created_at, updated_at`

// UserRepository provides database access for user profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	Photo        string         `db:"photo"`
	Bio          string         `db:"bio"`
	Orgs         pq.StringArray `db:"orgs"`
	Availability types.JSONText `db:"availability"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r userRow) toModel() (*models.User, error) {
	avail, err := decodeAvailability(r.Availability)
	if err != nil {
		return nil, fmt.Errorf("decode availability for user %s: %w", r.ID, err)
	}
	return &models.User{
		Resource:     models.Resource{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Photo:        r.Photo,
		Bio:          r.Bio,
		Orgs:         []string(r.Orgs),
		Availability: avail,
	}, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var row userRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return row.toModel()
}

// List returns one page of users belonging to any of filter.Orgs, ordered by
// name, together with the total number of matching users.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	base := "FROM users WHERE 1=1"
	var conditions []string
	var args []interface{}

	if len(filter.Orgs) > 0 {
		conditions = append(conditions, fmt.Sprintf("orgs && $%d", len(args)+1))
		args = append(args, pq.StringArray(filter.Orgs))
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(bio) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 0 {
		page = 0
	}
	size := filter.HitsPerPage
	if size <= 0 || size > 100 {
		size = 20
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC, id ASC LIMIT %d OFFSET %d", userColumns, base, size, page*size)
	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		user, err := row.toModel()
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, total, nil
}

// FindAvailability loads only the weekly availability of a user.
func (r *UserRepository) FindAvailability(ctx context.Context, id string) (availability.Availability, error) {
	const query = `SELECT availability FROM users WHERE id = $1 LIMIT 1`
	var raw types.JSONText
	if err := r.db.GetContext(ctx, &raw, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find availability: %w", err)
	}
	avail, err := decodeAvailability(raw)
	if err != nil {
		return nil, fmt.Errorf("decode availability for user %s: %w", id, err)
	}
	return avail, nil
}

// UpdateAvailability replaces the weekly availability of a user. It returns
// sql.ErrNoRows when the user does not exist.
func (r *UserRepository) UpdateAvailability(ctx context.Context, id string, avail availability.Availability) error {
	if avail == nil {
		avail = availability.Availability{}
	}
	payload, err := json.Marshal(avail)
	if err != nil {
		return fmt.Errorf("encode availability: %w", err)
	}
	const query = `UPDATE users SET availability = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, types.JSONText(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update availability: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update availability rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func decodeAvailability(raw types.JSONText) (availability.Availability, error) {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "{}":
		return availability.Availability{}, nil
	}
	var avail availability.Availability
	if err := raw.Unmarshal(&avail); err != nil {
		return nil, err
	}
	return avail, nil
}
