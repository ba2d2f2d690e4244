package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadval-app/jadval-api/internal/models"
)

func newLessonRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func lessonRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "week_start", "day", "shift", "period", "subject", "room", "teacher", "groups", "type", "updated_by", "created_at", "updated_at"}).
		AddRow("l1", "2026-08-24", "dushanba", "kunduzgi", 1, "Matematika", "JM403", "Karimov", pq.StringArray{"JM405"}, "ma'ruza", "u1", time.Now(), time.Now())
}

func TestLessonRepositoryList(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectQuery("SELECT id, week_start, day, shift, period, subject, room, teacher, groups, type, updated_by, created_at, updated_at FROM lessons WHERE 1=1 AND week_start = \\$1").
		WithArgs("2026-08-24").
		WillReturnRows(lessonRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM lessons WHERE 1=1 AND week_start = $1")).
		WithArgs("2026-08-24").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.LessonFilter{WeekStart: "2026-08-24"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, pq.StringArray{"JM405"}, list[0].Groups)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryListByGroup(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectQuery(`FROM lessons WHERE 1=1 AND \$1 = ANY\(groups\)`).
		WithArgs("JM405").
		WillReturnRows(lessonRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM lessons WHERE 1=1 AND $1 = ANY(groups)")).
		WithArgs("JM405").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.LessonFilter{Group: "JM405"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec("INSERT INTO lessons").
		WithArgs(sqlmock.AnyArg(), "2026-08-24", "dushanba", "kunduzgi", 1, "Matematika", "JM403", "Karimov", sqlmock.AnyArg(), "ma'ruza", "u1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	lesson := &models.Lesson{
		WeekStart: "2026-08-24",
		Day:       "dushanba",
		Shift:     "kunduzgi",
		Period:    1,
		Subject:   "Matematika",
		Room:      "JM403",
		Teacher:   "Karimov",
		Groups:    pq.StringArray{"JM405"},
		Type:      "ma'ruza",
		UpdatedBy: "u1",
	}
	require.NoError(t, repo.Upsert(context.Background(), lesson))
	assert.NotEmpty(t, lesson.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryFindBySlot(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM lessons WHERE week_start = $1 AND day = $2 AND shift = $3 AND period = $4")).
		WithArgs("2026-08-24", "dushanba", "kunduzgi", 1).
		WillReturnRows(lessonRows())

	lesson, err := repo.FindBySlot(context.Background(), "2026-08-24", "dushanba", "kunduzgi", 1)
	require.NoError(t, err)
	assert.Equal(t, "Matematika", lesson.Subject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryBulkUpsert(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO lessons").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO lessons").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	lessons := []models.Lesson{
		{WeekStart: "2026-08-31", Day: "dushanba", Shift: "kunduzgi", Period: 1, Subject: "Matematika"},
		{WeekStart: "2026-08-31", Day: "dushanba", Shift: "kunduzgi", Period: 2, Subject: "Fizika"},
	}
	require.NoError(t, repo.BulkUpsert(context.Background(), lessons))
	assert.NotEmpty(t, lessons[0].ID)
	assert.NotEmpty(t, lessons[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryDeleteBySlot(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM lessons WHERE week_start = $1 AND day = $2 AND shift = $3 AND period = $4")).
		WithArgs("2026-08-24", "dushanba", "kunduzgi", 1).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.DeleteBySlot(context.Background(), "2026-08-24", "dushanba", "kunduzgi", 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
