package repository

import (
	"context"
	"database/sql"
	"studygroup-api/logger"
	"studygroup-api/model"
	"time"

	"github.com/sirupsen/logrus"
)

// IMemberRepository defines the contract for member account persistence.
type IMemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	GetByEmail(ctx context.Context, email string) (*model.Member, error)
	GetByID(ctx context.Context, id int) (*model.Member, error)
	TouchLastLogin(ctx context.Context, id int, at time.Time) error
}

type MemberRepository struct {
	DB *sql.DB
}

func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{DB: db}
}

const memberColumns = `id, email, password, name, role, last_login_at, created_at, updated_at`

func scanMember(row interface{ Scan(...interface{}) error }) (*model.Member, error) {
	m := &model.Member{}
	var lastLogin sql.NullTime
	if err := row.Scan(&m.ID, &m.Email, &m.Password, &m.Name, &m.Role, &lastLogin, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		m.LastLoginAt = &lastLogin.Time
	}
	return m, nil
}

// Create inserts a new member and fills in its generated ID.
func (r *MemberRepository) Create(ctx context.Context, member *model.Member) error {
	log := logger.Log.WithField("email", member.Email)
	log.Info("Executing query to create a new member")

	query := `INSERT INTO members (email, password, name, role, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.DB.QueryRowContext(ctx, query, member.Email, member.Password, member.Name, member.Role, member.CreatedAt, member.UpdatedAt).Scan(&member.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute create member query")
		return err
	}
	return nil
}

func (r *MemberRepository) GetByEmail(ctx context.Context, email string) (*model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE email = $1`
	m, err := scanMember(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("email", email).Error("Failed to execute get member by email query")
		}
		return nil, err
	}
	return m, nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id int) (*model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	m, err := scanMember(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("member_id", id).Error("Failed to execute get member by id query")
		}
		return nil, err
	}
	return m, nil
}

// TouchLastLogin records a successful login.
func (r *MemberRepository) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	log := logger.Log.WithFields(logrus.Fields{
		"member_id": id,
		"at":        at,
	})

	query := `UPDATE members SET last_login_at = $1 WHERE id = $2`
	if _, err := r.DB.ExecContext(ctx, query, at, id); err != nil {
		log.WithError(err).Error("Failed to execute touch last login query")
		return err
	}
	return nil
}
