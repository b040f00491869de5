package repository

import (
	"context"
	"database/sql"
	"studygroup-api/logger"
	"studygroup-api/model"

	"github.com/sirupsen/logrus"
)

// IWaitingRepository defines the contract for pending invitation rows.
type IWaitingRepository interface {
	Create(ctx context.Context, tx *sql.Tx, waiting *model.WaitingPeople) error
	FindByMemberAndGroup(ctx context.Context, q Querier, memberID, groupID int) (*model.WaitingPeople, error)
	Delete(ctx context.Context, tx *sql.Tx, id int) error
	ListByGroup(ctx context.Context, groupID int) ([]*model.WaitingPeople, error)
	ListByMember(ctx context.Context, memberID int) ([]*model.WaitingPeople, error)
}

type WaitingRepository struct {
	DB *sql.DB
}

func NewWaitingRepository(db *sql.DB) *WaitingRepository {
	return &WaitingRepository{DB: db}
}

const waitingColumns = `w.id, w.group_id, w.member_id, w.created_at`

func scanWaiting(row interface{ Scan(...interface{}) error }) (*model.WaitingPeople, error) {
	w := &model.WaitingPeople{}
	if err := row.Scan(&w.ID, &w.GroupID, &w.MemberID, &w.CreatedAt); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *WaitingRepository) Create(ctx context.Context, tx *sql.Tx, waiting *model.WaitingPeople) error {
	log := logger.Log.WithFields(logrus.Fields{
		"group_id":  waiting.GroupID,
		"member_id": waiting.MemberID,
	})
	log.Info("Executing query to create a new waiting entry")

	query := `INSERT INTO waiting_people (group_id, member_id, created_at) VALUES ($1, $2, $3) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, waiting.GroupID, waiting.MemberID, waiting.CreatedAt).Scan(&waiting.ID); err != nil {
		log.WithError(err).Error("Failed to execute create waiting entry query")
		return err
	}
	return nil
}

func (r *WaitingRepository) FindByMemberAndGroup(ctx context.Context, q Querier, memberID, groupID int) (*model.WaitingPeople, error) {
	query := `SELECT ` + waitingColumns + ` FROM waiting_people w WHERE w.member_id = $1 AND w.group_id = $2`
	w, err := scanWaiting(q.QueryRowContext(ctx, query, memberID, groupID))
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithFields(logrus.Fields{
				"member_id": memberID,
				"group_id":  groupID,
			}).Error("Failed to execute find waiting entry query")
		}
		return nil, err
	}
	return w, nil
}

func (r *WaitingRepository) Delete(ctx context.Context, tx *sql.Tx, id int) error {
	log := logger.Log.WithField("waiting_id", id)
	log.Info("Executing query to delete waiting entry")

	query := `DELETE FROM waiting_people WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		log.WithError(err).Error("Failed to execute delete waiting entry query")
		return err
	}
	return nil
}

func (r *WaitingRepository) ListByGroup(ctx context.Context, groupID int) ([]*model.WaitingPeople, error) {
	query := `SELECT ` + waitingColumns + ` FROM waiting_people w WHERE w.group_id = $1 ORDER BY w.created_at, w.id`
	return r.list(ctx, query, groupID)
}

// ListByMember returns the member's invitations into live groups.
func (r *WaitingRepository) ListByMember(ctx context.Context, memberID int) ([]*model.WaitingPeople, error) {
	query := `
		SELECT ` + waitingColumns + `
		FROM waiting_people w
		JOIN study_groups g ON g.id = w.group_id
		WHERE w.member_id = $1 AND g.deleted = FALSE
		ORDER BY w.created_at DESC`
	return r.list(ctx, query, memberID)
}

func (r *WaitingRepository) list(ctx context.Context, query string, arg int) ([]*model.WaitingPeople, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute query for waiting entries")
		return nil, err
	}
	defer rows.Close()

	var entries []*model.WaitingPeople
	for rows.Next() {
		w, err := scanWaiting(rows)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to scan waiting entry row")
			return nil, err
		}
		entries = append(entries, w)
	}
	return entries, rows.Err()
}
