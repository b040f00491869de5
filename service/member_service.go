package service

import (
	"context"
	"database/sql"
	"errors"
	"studygroup-api/model"
	"studygroup-api/repository"
)

// MemberService resolves authenticated identities to member accounts.
type MemberService struct {
	members repository.IMemberRepository
}

func NewMemberService(members repository.IMemberRepository) *MemberService {
	return &MemberService{members: members}
}

// Current returns the member behind identity.
func (s *MemberService) Current(ctx context.Context, identity *model.Identity) (*model.Member, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	member, err := s.members.GetByEmail(ctx, identity.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	return member, err
}
