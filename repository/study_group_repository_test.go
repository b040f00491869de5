package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studygroup-api/model"
)

var groupRowColumns = []string{"id", "name", "description", "member_count", "waiting_count", "deleted", "created_at", "updated_at"}

func TestStudyGroupRepository_GetForUpdate(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewStudyGroupRepository(db)
	ctx := context.Background()
	now := time.Now()

	dbMock.ExpectBegin()
	dbMock.ExpectQuery(regexp.QuoteMeta(`FROM study_groups g WHERE g.id = $1 AND g.deleted = FALSE FOR UPDATE`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(groupRowColumns).AddRow(7, "Go study", "weekly", 3, 1, false, now, now))
	dbMock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows(groupRowColumns))
	dbMock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	g, err := repo.GetForUpdate(ctx, tx, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, g.MemberCount)
	assert.Equal(t, 1, g.WaitingCount)

	_, err = repo.GetForUpdate(ctx, tx, 8)
	assert.Equal(t, sql.ErrNoRows, err)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestStudyGroupRepository_UpdateCounts(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewStudyGroupRepository(db)
	now := time.Now()
	group := &model.StudyGroup{ID: 4, MemberCount: 2, WaitingCount: 0, UpdatedAt: now}

	dbMock.ExpectBegin()
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE study_groups SET member_count = $1, waiting_count = $2, updated_at = $3 WHERE id = $4`)).
		WithArgs(2, 0, now, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.UpdateCounts(context.Background(), tx, group))
	require.NoError(t, tx.Commit())
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestParticipantRepository_Finders(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewParticipantRepository(db)
	ctx := context.Background()
	now := time.Now()

	dbMock.ExpectQuery(regexp.QuoteMeta(`FROM participants WHERE member_id = $1 AND group_id = $2`)).
		WithArgs(11, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "member_id", "nickname", "role", "joined_at", "updated_at"}).
			AddRow(5, 3, 11, "bee", "MANAGER", now, now))
	dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM participants WHERE group_id = $1 AND nickname = $2 AND id <> $3)`)).
		WithArgs(3, "bee", 0).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	dbMock.ExpectQuery(regexp.QuoteMeta(`WHERE p.member_id = $1 AND g.deleted = FALSE`)).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	p, err := repo.FindByMemberAndGroup(ctx, db, 11, 3)
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, p.Role)
	assert.Equal(t, "bee", p.Nickname)

	taken, err := repo.NicknameTaken(ctx, db, 3, "bee", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	count, err := repo.CountByMember(ctx, db, 11)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestWaitingRepository_CreateAndDelete(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWaitingRepository(db)
	ctx := context.Background()
	w := model.NewWaitingPeople(3, 12, time.Now())

	dbMock.ExpectBegin()
	dbMock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO waiting_people (group_id, member_id, created_at) VALUES ($1, $2, $3) RETURNING id`)).
		WithArgs(3, 12, w.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM waiting_people WHERE id = $1`)).
		WithArgs(21).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tx, w))
	assert.Equal(t, 21, w.ID)
	require.NoError(t, repo.Delete(ctx, tx, w.ID))
	require.NoError(t, tx.Commit())

	assert.NoError(t, dbMock.ExpectationsWereMet())
}
