package service

import (
	"context"
	"database/sql"
	"errors"
	"studygroup-api/model"
	"studygroup-api/repository"
	"time"
)

// NoticeService manages group notices. Participants read them; managers and
// the leader write them.
type NoticeService struct {
	db           repository.Querier
	notices      repository.INoticeRepository
	groups       repository.IStudyGroupRepository
	participants repository.IParticipantRepository
	now          func() time.Time
}

func NewNoticeService(db repository.Querier, notices repository.INoticeRepository, groups repository.IStudyGroupRepository, participants repository.IParticipantRepository) *NoticeService {
	return &NoticeService{
		db:           db,
		notices:      notices,
		groups:       groups,
		participants: participants,
		now:          time.Now,
	}
}

// authorize checks that the group is live and the caller participates in it
// with at least min.
func (s *NoticeService) authorize(ctx context.Context, actorID, groupID int, min model.Role) error {
	if _, err := s.groups.GetByID(ctx, groupID); errors.Is(err, sql.ErrNoRows) {
		return ErrStudyGroupNotFound
	} else if err != nil {
		return err
	}

	p, err := s.participants.FindByMemberAndGroup(ctx, s.db, actorID, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUnauthorized
	}
	if err != nil {
		return err
	}
	if !p.Role.IsAtLeast(min) {
		return ErrPermissionDenied
	}
	return nil
}

func (s *NoticeService) find(ctx context.Context, noticeID, groupID int) (*model.Notice, error) {
	n, err := s.notices.GetByID(ctx, noticeID, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoticeNotFound
	}
	return n, err
}

func (s *NoticeService) Create(ctx context.Context, actorID, groupID int, req model.NoticeRequest) (*model.Notice, error) {
	if err := s.authorize(ctx, actorID, groupID, model.RoleManager); err != nil {
		return nil, err
	}
	n := model.NewNotice(groupID, actorID, req.Title, req.Content, s.now())
	if err := s.notices.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NoticeService) List(ctx context.Context, actorID, groupID int) ([]*model.Notice, error) {
	if err := s.authorize(ctx, actorID, groupID, model.RoleMember); err != nil {
		return nil, err
	}
	return s.notices.ListByGroup(ctx, groupID)
}

func (s *NoticeService) Get(ctx context.Context, actorID, groupID, noticeID int) (*model.Notice, error) {
	if err := s.authorize(ctx, actorID, groupID, model.RoleMember); err != nil {
		return nil, err
	}
	return s.find(ctx, noticeID, groupID)
}

func (s *NoticeService) Update(ctx context.Context, actorID, groupID, noticeID int, req model.NoticeRequest) (*model.Notice, error) {
	if err := s.authorize(ctx, actorID, groupID, model.RoleManager); err != nil {
		return nil, err
	}
	n, err := s.find(ctx, noticeID, groupID)
	if err != nil {
		return nil, err
	}
	n.Edit(req.Title, req.Content, s.now())
	if err := s.notices.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NoticeService) Delete(ctx context.Context, actorID, groupID, noticeID int) error {
	if err := s.authorize(ctx, actorID, groupID, model.RoleManager); err != nil {
		return err
	}
	if _, err := s.find(ctx, noticeID, groupID); err != nil {
		return err
	}
	return s.notices.Delete(ctx, noticeID)
}
