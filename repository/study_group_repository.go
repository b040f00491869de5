package repository

import (
	"context"
	"database/sql"
	"studygroup-api/logger"
	"studygroup-api/model"
	"time"

	"github.com/sirupsen/logrus"
)

// IStudyGroupRepository defines the contract for study group rows.
// Soft-deleted groups are invisible to every finder.
type IStudyGroupRepository interface {
	Create(ctx context.Context, tx *sql.Tx, group *model.StudyGroup) error
	GetByID(ctx context.Context, id int) (*model.StudyGroup, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int) (*model.StudyGroup, error)
	UpdateCounts(ctx context.Context, tx *sql.Tx, group *model.StudyGroup) error
	SoftDelete(ctx context.Context, tx *sql.Tx, id int, at time.Time) error
	ListByMember(ctx context.Context, memberID int) ([]*model.StudyGroup, error)
}

type StudyGroupRepository struct {
	DB *sql.DB
}

func NewStudyGroupRepository(db *sql.DB) *StudyGroupRepository {
	return &StudyGroupRepository{DB: db}
}

const studyGroupColumns = `g.id, g.name, g.description, g.member_count, g.waiting_count, g.deleted, g.created_at, g.updated_at`

func scanStudyGroup(row interface{ Scan(...interface{}) error }) (*model.StudyGroup, error) {
	g := &model.StudyGroup{}
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.MemberCount, &g.WaitingCount, &g.Deleted, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *StudyGroupRepository) Create(ctx context.Context, tx *sql.Tx, group *model.StudyGroup) error {
	log := logger.Log.WithField("name", group.Name)
	log.Info("Executing query to create a new study group")

	query := `INSERT INTO study_groups (name, description, member_count, waiting_count, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := tx.QueryRowContext(ctx, query, group.Name, group.Description, group.MemberCount, group.WaitingCount, group.CreatedAt, group.UpdatedAt).Scan(&group.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute create study group query")
		return err
	}
	return nil
}

func (r *StudyGroupRepository) GetByID(ctx context.Context, id int) (*model.StudyGroup, error) {
	query := `SELECT ` + studyGroupColumns + ` FROM study_groups g WHERE g.id = $1 AND g.deleted = FALSE`
	g, err := scanStudyGroup(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("group_id", id).Error("Failed to execute get study group query")
		}
		return nil, err
	}
	return g, nil
}

// GetForUpdate locks the group row for the rest of tx. Every membership
// transition on a group goes through this lock first.
func (r *StudyGroupRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int) (*model.StudyGroup, error) {
	log := logger.Log.WithField("group_id", id)
	log.Info("Executing query to get study group for update")

	query := `SELECT ` + studyGroupColumns + ` FROM study_groups g WHERE g.id = $1 AND g.deleted = FALSE FOR UPDATE`
	g, err := scanStudyGroup(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Study group not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get study group for update query")
		}
		return nil, err
	}
	return g, nil
}

func (r *StudyGroupRepository) UpdateCounts(ctx context.Context, tx *sql.Tx, group *model.StudyGroup) error {
	log := logger.Log.WithFields(logrus.Fields{
		"group_id":      group.ID,
		"member_count":  group.MemberCount,
		"waiting_count": group.WaitingCount,
	})
	log.Info("Executing query to update study group counts")

	query := `UPDATE study_groups SET member_count = $1, waiting_count = $2, updated_at = $3 WHERE id = $4`
	if _, err := tx.ExecContext(ctx, query, group.MemberCount, group.WaitingCount, group.UpdatedAt, group.ID); err != nil {
		log.WithError(err).Error("Failed to execute update study group counts query")
		return err
	}
	return nil
}

func (r *StudyGroupRepository) SoftDelete(ctx context.Context, tx *sql.Tx, id int, at time.Time) error {
	log := logger.Log.WithField("group_id", id)
	log.Info("Executing query to soft delete study group")

	query := `UPDATE study_groups SET deleted = TRUE, updated_at = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, at, id); err != nil {
		log.WithError(err).Error("Failed to execute soft delete study group query")
		return err
	}
	return nil
}

// ListByMember returns the live groups the member participates in.
func (r *StudyGroupRepository) ListByMember(ctx context.Context, memberID int) ([]*model.StudyGroup, error) {
	log := logger.Log.WithField("member_id", memberID)
	log.Info("Executing query to list study groups by member")

	query := `
		SELECT ` + studyGroupColumns + `
		FROM study_groups g
		JOIN participants p ON p.group_id = g.id
		WHERE p.member_id = $1 AND g.deleted = FALSE
		ORDER BY g.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, memberID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for study groups by member")
		return nil, err
	}
	defer rows.Close()

	var groups []*model.StudyGroup
	for rows.Next() {
		g, err := scanStudyGroup(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan study group row")
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
