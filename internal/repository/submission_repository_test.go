package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/crossword-server/internal/database"
	"github.com/yukikurage/crossword-server/internal/models"
	"github.com/yukikurage/crossword-server/internal/puzzle"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := database.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), false)
	require.NoError(t, err)
	return db, mock
}

func mockSubmission(outcome models.Outcome) *models.Submission {
	return &models.Submission{
		UserID:         1,
		PuzzleID:       2,
		Grid:           datatypes.NewJSONType(puzzle.Matrix{{"A"}}),
		TimeTaken:      12.5,
		Outcome:        outcome,
		IncorrectCells: datatypes.NewJSONType([]puzzle.Coord{}),
		SubmittedAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecord_InsertFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubmissionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `submissions`").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Record(context.Background(), mockSubmission(models.OutcomeCorrect))
	assert.ErrorIs(t, err, ErrCreateSubmission)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_AggregateFailureRollsBackSubmission(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubmissionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `submissions`").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("UPDATE `puzzles` SET").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := repo.Record(context.Background(), mockSubmission(models.OutcomeCorrect))
	assert.ErrorIs(t, err, ErrUpdatePuzzleStats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_IncorrectOnlyInserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubmissionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `submissions`").WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectCommit()

	sub := mockSubmission(models.OutcomeIncorrect)
	require.NoError(t, repo.Record(context.Background(), sub))
	assert.Equal(t, uint64(8), sub.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
