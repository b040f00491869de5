package repository

import (
	"context"
	"database/sql"
	"studygroup-api/logger"
	"studygroup-api/model"

	"github.com/sirupsen/logrus"
)

// IParticipantRepository defines the contract for participant rows.
type IParticipantRepository interface {
	Create(ctx context.Context, tx *sql.Tx, participant *model.Participant) error
	FindByMemberAndGroup(ctx context.Context, q Querier, memberID, groupID int) (*model.Participant, error)
	FindByIDAndGroup(ctx context.Context, q Querier, id, groupID int) (*model.Participant, error)
	NicknameTaken(ctx context.Context, q Querier, groupID int, nickname string, excludeID int) (bool, error)
	CountByMember(ctx context.Context, q Querier, memberID int) (int, error)
	UpdateRole(ctx context.Context, tx *sql.Tx, participant *model.Participant) error
	UpdateNickname(ctx context.Context, tx *sql.Tx, participant *model.Participant) error
	Delete(ctx context.Context, tx *sql.Tx, id int) error
	ListByGroup(ctx context.Context, groupID int) ([]*model.Participant, error)
	ListByGroupAndRole(ctx context.Context, groupID int, role model.Role) ([]*model.Participant, error)
}

type ParticipantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) *ParticipantRepository {
	return &ParticipantRepository{DB: db}
}

const participantColumns = `id, group_id, member_id, nickname, role, joined_at, updated_at`

func scanParticipant(row interface{ Scan(...interface{}) error }) (*model.Participant, error) {
	p := &model.Participant{}
	if err := row.Scan(&p.ID, &p.GroupID, &p.MemberID, &p.Nickname, &p.Role, &p.JoinedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ParticipantRepository) Create(ctx context.Context, tx *sql.Tx, participant *model.Participant) error {
	log := logger.Log.WithFields(logrus.Fields{
		"group_id":  participant.GroupID,
		"member_id": participant.MemberID,
		"role":      participant.Role,
	})
	log.Info("Executing query to create a new participant")

	query := `INSERT INTO participants (group_id, member_id, nickname, role, joined_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := tx.QueryRowContext(ctx, query, participant.GroupID, participant.MemberID, participant.Nickname, participant.Role, participant.JoinedAt, participant.UpdatedAt).Scan(&participant.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute create participant query")
		return err
	}
	return nil
}

func (r *ParticipantRepository) FindByMemberAndGroup(ctx context.Context, q Querier, memberID, groupID int) (*model.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE member_id = $1 AND group_id = $2`
	p, err := scanParticipant(q.QueryRowContext(ctx, query, memberID, groupID))
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithFields(logrus.Fields{
				"member_id": memberID,
				"group_id":  groupID,
			}).Error("Failed to execute find participant by member query")
		}
		return nil, err
	}
	return p, nil
}

func (r *ParticipantRepository) FindByIDAndGroup(ctx context.Context, q Querier, id, groupID int) (*model.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1 AND group_id = $2`
	p, err := scanParticipant(q.QueryRowContext(ctx, query, id, groupID))
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithFields(logrus.Fields{
				"participant_id": id,
				"group_id":       groupID,
			}).Error("Failed to execute find participant by id query")
		}
		return nil, err
	}
	return p, nil
}

// NicknameTaken reports whether another participant of the group already
// uses nickname. excludeID lets a participant keep its own nickname; pass 0
// for new participants.
func (r *ParticipantRepository) NicknameTaken(ctx context.Context, q Querier, groupID int, nickname string, excludeID int) (bool, error) {
	var taken bool
	query := `SELECT EXISTS (SELECT 1 FROM participants WHERE group_id = $1 AND nickname = $2 AND id <> $3)`
	if err := q.QueryRowContext(ctx, query, groupID, nickname, excludeID).Scan(&taken); err != nil {
		logger.Log.WithError(err).WithField("group_id", groupID).Error("Failed to execute nickname check query")
		return false, err
	}
	return taken, nil
}

// CountByMember counts the member's participations in live groups.
func (r *ParticipantRepository) CountByMember(ctx context.Context, q Querier, memberID int) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM participants p
		JOIN study_groups g ON g.id = p.group_id
		WHERE p.member_id = $1 AND g.deleted = FALSE`
	if err := q.QueryRowContext(ctx, query, memberID).Scan(&count); err != nil {
		logger.Log.WithError(err).WithField("member_id", memberID).Error("Failed to execute count participants by member query")
		return 0, err
	}
	return count, nil
}

func (r *ParticipantRepository) UpdateRole(ctx context.Context, tx *sql.Tx, participant *model.Participant) error {
	log := logger.Log.WithFields(logrus.Fields{
		"participant_id": participant.ID,
		"role":           participant.Role,
	})
	log.Info("Executing query to update participant role")

	query := `UPDATE participants SET role = $1, updated_at = $2 WHERE id = $3`
	if _, err := tx.ExecContext(ctx, query, participant.Role, participant.UpdatedAt, participant.ID); err != nil {
		log.WithError(err).Error("Failed to execute update participant role query")
		return err
	}
	return nil
}

func (r *ParticipantRepository) UpdateNickname(ctx context.Context, tx *sql.Tx, participant *model.Participant) error {
	log := logger.Log.WithField("participant_id", participant.ID)
	log.Info("Executing query to update participant nickname")

	query := `UPDATE participants SET nickname = $1, updated_at = $2 WHERE id = $3`
	if _, err := tx.ExecContext(ctx, query, participant.Nickname, participant.UpdatedAt, participant.ID); err != nil {
		log.WithError(err).Error("Failed to execute update participant nickname query")
		return err
	}
	return nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, tx *sql.Tx, id int) error {
	log := logger.Log.WithField("participant_id", id)
	log.Info("Executing query to delete participant")

	query := `DELETE FROM participants WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		log.WithError(err).Error("Failed to execute delete participant query")
		return err
	}
	return nil
}

func (r *ParticipantRepository) ListByGroup(ctx context.Context, groupID int) ([]*model.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE group_id = $1 ORDER BY joined_at, id`
	return r.list(ctx, query, groupID)
}

func (r *ParticipantRepository) ListByGroupAndRole(ctx context.Context, groupID int, role model.Role) ([]*model.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE group_id = $1 AND role = $2 ORDER BY joined_at, id`
	return r.list(ctx, query, groupID, role)
}

func (r *ParticipantRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.Participant, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute query for participants")
		return nil, err
	}
	defer rows.Close()

	var participants []*model.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to scan participant row")
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
