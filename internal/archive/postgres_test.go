package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachlab/coachlab/pkg/scoring"
)

var sessionColumns = []string{"id", "scenario_id", "score", "badge", "enriched", "storage_ref", "created_at"}

func newMockIndex(t *testing.T) (*PostgresIndex, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresIndex(db), mock
}

func TestPostgresIndexPut(t *testing.T) {
	idx, mock := newMockIndex(t)
	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	rec := Record{
		ID:         "6f1c1f3e-9c7a-4d8e-9b1a-0c2d3e4f5a6b",
		ScenarioID: "default",
		Score:      75,
		Badge:      scoring.BadgeGood,
		StorageRef: "sessions/2026/03/04/x.json",
		CreatedAt:  at,
	}

	mock.ExpectExec("INSERT INTO coaching_sessions").
		WithArgs(rec.ID, "default", 75, "Good coaching", false, rec.StorageRef, at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, idx.Put(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresIndexGet(t *testing.T) {
	idx, mock := newMockIndex(t)
	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM coaching_sessions WHERE id = \\$1").
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows(sessionColumns).
			AddRow("abc", "noAnswer", 40, "Mixed", true, "sessions/abc.json", at))

	rec, err := idx.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "noAnswer", rec.ScenarioID)
	assert.Equal(t, scoring.BadgeMixed, rec.Badge)
	assert.True(t, rec.Enriched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresIndexGetNotFound(t *testing.T) {
	idx, mock := newMockIndex(t)

	mock.ExpectQuery("SELECT .+ FROM coaching_sessions").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(sessionColumns))

	_, err := idx.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresIndexList(t *testing.T) {
	idx, mock := newMockIndex(t)
	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM coaching_sessions .+ORDER BY created_at DESC").
		WithArgs("default", 10).
		WillReturnRows(sqlmock.NewRows(sessionColumns).
			AddRow("b", "default", 80, "Good coaching", false, "sessions/b.json", at.Add(time.Minute)).
			AddRow("a", "default", 20, "Needs work", false, "sessions/a.json", at))

	recs, err := idx.List(context.Background(), Filter{ScenarioID: "default", Limit: 10})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresIndexListError(t *testing.T) {
	idx, mock := newMockIndex(t)

	mock.ExpectQuery("SELECT .+ FROM coaching_sessions").
		WillReturnError(errors.New("connection reset"))

	_, err := idx.List(context.Background(), Filter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPostgresIndexPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	assert.NoError(t, NewPostgresIndex(db).Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
