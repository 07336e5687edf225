package posts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/tsn/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

const (
	insertQuery = `(?s)^INSERT\s+INTO\s+posts\s*\(owner,\s*sender,\s*body,\s*posted_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*$`
	recentQuery = `(?s)^SELECT\s+sender,\s*body,\s*posted_at\s+FROM\s+\(.*ORDER\s+BY\s+id\s+DESC\s+LIMIT\s+\$2\s*\)\s*recent\s+ORDER\s+BY\s+id\s*$`
	allQuery    = `(?s)^SELECT\s+sender,\s*body,\s*posted_at\s+FROM\s+posts\s+WHERE\s+owner\s*=\s*\$1\s+ORDER\s+BY\s+id\s*$`
)

func TestAppend_Inserts(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectExec(insertQuery).
		WithArgs("bob", "alice", "hello", at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Append(context.Background(), "bob", models.Post{Sender: "alice", Text: "hello", Timestamp: at})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQuery).WillReturnError(errors.New("disk full"))

	err := repo.Append(context.Background(), "bob", models.Post{Sender: "alice", Text: "x"})
	require.ErrorContains(t, err, "db error: disk full")
}

func TestRecent_ScansOldestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	rows := sqlmock.NewRows([]string{"sender", "body", "posted_at"}).
		AddRow("alice", "one", t1).
		AddRow("carol", "two", t2)
	mock.ExpectQuery(recentQuery).WithArgs("bob", 20).WillReturnRows(rows)

	got, err := repo.Recent(context.Background(), "bob", 20)
	require.NoError(t, err)
	assert.Equal(t, []models.Post{
		{Sender: "alice", Text: "one", Timestamp: t1},
		{Sender: "carol", Text: "two", Timestamp: t2},
	}, got)
}

func TestAll_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(allQuery).WithArgs("bob").WillReturnError(errors.New("db err"))

	_, err := repo.All(context.Background(), "bob")
	require.ErrorContains(t, err, "db error")
}

func TestAll_ScanError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"sender", "body", "posted_at"}).AddRow("alice", "x", "not a time")
	mock.ExpectQuery(allQuery).WithArgs("bob").WillReturnRows(rows)

	_, err := repo.All(context.Background(), "bob")
	require.Error(t, err)
}
