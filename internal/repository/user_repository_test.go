package repository

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorbook/tutorbook-api/internal/availability"
	"github.com/tutorbook/tutorbook-api/internal/models"
)

const availabilityJSON = `[{"from":"2021-03-07T09:00:00Z","to":"2021-03-07T12:00:00Z"}]`

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "photo", "bio", "orgs", "availability", "created_at", "updated_at"})
}

func TestUserFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, photo, bio, orgs, availability, created_at, updated_at FROM users WHERE id = $1 LIMIT 1")).
		WithArgs("u1").
		WillReturnRows(userRows().AddRow("u1", "Ada", "ada@example.com", "", "Math tutor", "{default,gunn}", []byte(availabilityJSON), now, now))

	user, err := repo.FindByID(ctx(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, []string{"default", "gunn"}, user.Orgs)
	require.Len(t, user.Availability, 1)
	assert.Equal(t, 3*time.Hour, user.Availability[0].Duration())
	assert.Equal(t, time.Sunday, user.Availability[0].Weekday())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("FROM users WHERE id = \\$1").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(ctx(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindAvailabilityNull(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT availability FROM users WHERE id = $1 LIMIT 1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"availability"}).AddRow([]byte("null")))

	avail, err := repo.FindAvailability(ctx(), "u1")
	require.NoError(t, err)
	assert.Empty(t, avail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateAvailability(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	avail := availability.Availability{{
		From: sunday.Add(9 * time.Hour),
		To:   sunday.Add(12 * time.Hour),
	}}
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET availability = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("u1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateAvailability(ctx(), "u1", avail))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateAvailabilityMissingUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET availability").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateAvailability(ctx(), "ghost", nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, photo, bio, orgs, availability, created_at, updated_at FROM users WHERE 1=1 AND orgs && $1 AND (LOWER(name) LIKE $2 OR LOWER(bio) LIKE $2) ORDER BY name ASC, id ASC LIMIT 10 OFFSET 10")).
		WithArgs(sqlmock.AnyArg(), "%math%").
		WillReturnRows(userRows().
			AddRow("u1", "Ada", "ada@example.com", "", "Math tutor", "{gunn}", []byte(availabilityJSON), now, now).
			AddRow("u2", "Grace", "grace@example.com", "", "Math mentor", "{gunn,paly}", nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE 1=1 AND orgs && $1")).
		WithArgs(sqlmock.AnyArg(), "%math%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	users, hits, err := repo.List(ctx(), models.UserFilter{Orgs: []string{"gunn"}, Search: "Math", Page: 1, HitsPerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 12, hits)
	require.Len(t, users, 2)
	assert.Equal(t, "Grace", users[1].Name)
	assert.Equal(t, []string{"gunn", "paly"}, users[1].Orgs)
	assert.Empty(t, users[1].Availability)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserListDefaultsPaging(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE 1=1 ORDER BY name ASC, id ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(userRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	users, hits, err := repo.List(ctx(), models.UserFilter{Page: -2, HitsPerPage: 500})
	require.NoError(t, err)
	assert.Zero(t, hits)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}
