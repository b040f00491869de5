package repository

import (
	"context"
	"database/sql"
	"studygroup-api/logger"
	"studygroup-api/model"

	"github.com/sirupsen/logrus"
)

// INoticeRepository defines the contract for group notices.
type INoticeRepository interface {
	Create(ctx context.Context, notice *model.Notice) error
	GetByID(ctx context.Context, id, groupID int) (*model.Notice, error)
	ListByGroup(ctx context.Context, groupID int) ([]*model.Notice, error)
	Update(ctx context.Context, notice *model.Notice) error
	Delete(ctx context.Context, id int) error
}

type NoticeRepository struct {
	DB *sql.DB
}

func NewNoticeRepository(db *sql.DB) *NoticeRepository {
	return &NoticeRepository{DB: db}
}

const noticeColumns = `id, group_id, author_id, title, content, created_at, updated_at`

func scanNotice(row interface{ Scan(...interface{}) error }) (*model.Notice, error) {
	n := &model.Notice{}
	if err := row.Scan(&n.ID, &n.GroupID, &n.AuthorID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *NoticeRepository) Create(ctx context.Context, notice *model.Notice) error {
	log := logger.Log.WithFields(logrus.Fields{
		"group_id":  notice.GroupID,
		"author_id": notice.AuthorID,
	})
	log.Info("Executing query to create a new notice")

	query := `INSERT INTO notices (group_id, author_id, title, content, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.DB.QueryRowContext(ctx, query, notice.GroupID, notice.AuthorID, notice.Title, notice.Content, notice.CreatedAt, notice.UpdatedAt).Scan(&notice.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute create notice query")
		return err
	}
	return nil
}

func (r *NoticeRepository) GetByID(ctx context.Context, id, groupID int) (*model.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices WHERE id = $1 AND group_id = $2`
	n, err := scanNotice(r.DB.QueryRowContext(ctx, query, id, groupID))
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("notice_id", id).Error("Failed to execute get notice query")
		}
		return nil, err
	}
	return n, nil
}

func (r *NoticeRepository) ListByGroup(ctx context.Context, groupID int) ([]*model.Notice, error) {
	log := logger.Log.WithField("group_id", groupID)

	query := `SELECT ` + noticeColumns + ` FROM notices WHERE group_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query, groupID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for notices by group")
		return nil, err
	}
	defer rows.Close()

	var notices []*model.Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan notice row")
			return nil, err
		}
		notices = append(notices, n)
	}
	return notices, rows.Err()
}

func (r *NoticeRepository) Update(ctx context.Context, notice *model.Notice) error {
	log := logger.Log.WithField("notice_id", notice.ID)
	log.Info("Executing query to update notice")

	query := `UPDATE notices SET title = $1, content = $2, updated_at = $3 WHERE id = $4`
	if _, err := r.DB.ExecContext(ctx, query, notice.Title, notice.Content, notice.UpdatedAt, notice.ID); err != nil {
		log.WithError(err).Error("Failed to execute update notice query")
		return err
	}
	return nil
}

func (r *NoticeRepository) Delete(ctx context.Context, id int) error {
	log := logger.Log.WithField("notice_id", id)
	log.Info("Executing query to delete notice")

	if _, err := r.DB.ExecContext(ctx, `DELETE FROM notices WHERE id = $1`, id); err != nil {
		log.WithError(err).Error("Failed to execute delete notice query")
		return err
	}
	return nil
}
