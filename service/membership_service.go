package service

import (
	"context"
	"database/sql"
	"errors"
	"studygroup-api/logger"
	"studygroup-api/model"
	"studygroup-api/repository"
	"time"

	"github.com/sirupsen/logrus"
)

// MembershipRules bounds group sizes and per-member participation.
type MembershipRules struct {
	MaxGroupMembers    int
	MaxGroupsPerMember int
}

// MembershipService is the study group membership state machine. Every
// transition runs in one transaction that first locks the group row, and
// writes the group's counters together with the rows they count.
type MembershipService struct {
	db           *sql.DB
	groups       repository.IStudyGroupRepository
	participants repository.IParticipantRepository
	waiting      repository.IWaitingRepository
	members      repository.IMemberRepository
	rules        MembershipRules
	now          func() time.Time
}

func NewMembershipService(
	db *sql.DB,
	groups repository.IStudyGroupRepository,
	participants repository.IParticipantRepository,
	waiting repository.IWaitingRepository,
	members repository.IMemberRepository,
	rules MembershipRules,
) *MembershipService {
	return &MembershipService{
		db:           db,
		groups:       groups,
		participants: participants,
		waiting:      waiting,
		members:      members,
		rules:        rules,
		now:          time.Now,
	}
}

func (s *MembershipService) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Log.WithError(rbErr).Error("Failed to roll back membership transaction")
		}
		return err
	}
	return tx.Commit()
}

func (s *MembershipService) lockGroup(ctx context.Context, tx *sql.Tx, groupID int) (*model.StudyGroup, error) {
	group, err := s.groups.GetForUpdate(ctx, tx, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStudyGroupNotFound
	}
	return group, err
}

// participantOf returns the caller's participant row, or ErrUnauthorized.
func (s *MembershipService) participantOf(ctx context.Context, q repository.Querier, memberID, groupID int) (*model.Participant, error) {
	p, err := s.participants.FindByMemberAndGroup(ctx, q, memberID, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnauthorized
	}
	return p, err
}

// requireRole returns the caller's participant row if its role is at least
// min, and ErrPermissionDenied otherwise (including for non-participants).
func (s *MembershipService) requireRole(ctx context.Context, q repository.Querier, memberID, groupID int, min model.Role) (*model.Participant, error) {
	p, err := s.participantOf(ctx, q, memberID, groupID)
	if errors.Is(err, ErrUnauthorized) {
		return nil, ErrPermissionDenied
	}
	if err != nil {
		return nil, err
	}
	if !p.Role.IsAtLeast(min) {
		return nil, ErrPermissionDenied
	}
	return p, nil
}

func (s *MembershipService) targetParticipant(ctx context.Context, tx *sql.Tx, participantID, groupID int) (*model.Participant, error) {
	p, err := s.participants.FindByIDAndGroup(ctx, tx, participantID, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrParticipantNotFound
	}
	return p, err
}

func (s *MembershipService) waitingOf(ctx context.Context, tx *sql.Tx, memberID, groupID int) (*model.WaitingPeople, error) {
	w, err := s.waiting.FindByMemberAndGroup(ctx, tx, memberID, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWaitingNotFound
	}
	return w, err
}

func (s *MembershipService) checkGroupQuota(ctx context.Context, q repository.Querier, memberID int) error {
	joined, err := s.participants.CountByMember(ctx, q, memberID)
	if err != nil {
		return err
	}
	if joined >= s.rules.MaxGroupsPerMember {
		return ErrMaxGroupsExceeded
	}
	return nil
}

func transitionLog(action string, groupID, actorID int) *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"action":   action,
		"group_id": groupID,
		"actor_id": actorID,
	})
}

// CreateGroup creates a group whose creator is its LEADER.
func (s *MembershipService) CreateGroup(ctx context.Context, actorID int, req model.CreateGroupRequest) (*model.StudyGroup, error) {
	var group *model.StudyGroup
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.checkGroupQuota(ctx, tx, actorID); err != nil {
			return err
		}

		now := s.now()
		group = model.NewStudyGroup(req.Name, req.Description, now)
		if err := s.groups.Create(ctx, tx, group); err != nil {
			return err
		}
		leader := model.NewParticipant(group.ID, actorID, req.Nickname, model.RoleLeader, now)
		return s.participants.Create(ctx, tx, leader)
	})
	if err != nil {
		return nil, err
	}

	transitionLog("create", group.ID, actorID).Info("Study group created")
	return group, nil
}

// Invite adds a waiting entry for every selected member. Either all
// invitations are recorded or none.
func (s *MembershipService) Invite(ctx context.Context, actorID, groupID int, memberIDs []int) ([]*model.WaitingPeople, error) {
	selected := uniqueIDs(memberIDs)

	var created []*model.WaitingPeople
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		group, err := s.lockGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if _, err := s.requireRole(ctx, tx, actorID, groupID, model.RoleManager); err != nil {
			return err
		}
		if group.MemberCount+group.WaitingCount+len(selected) > s.rules.MaxGroupMembers {
			return ErrGroupFull
		}

		for _, memberID := range selected {
			if err := s.checkInvitable(ctx, tx, memberID, groupID); err != nil {
				return err
			}
		}

		now := s.now()
		for _, memberID := range selected {
			w := model.NewWaitingPeople(groupID, memberID, now)
			if err := s.waiting.Create(ctx, tx, w); err != nil {
				return err
			}
			created = append(created, w)
		}

		group.Invited(len(selected), now)
		return s.groups.UpdateCounts(ctx, tx, group)
	})
	if err != nil {
		return nil, err
	}

	transitionLog("invite", groupID, actorID).WithField("invited", len(created)).Info("Members invited")
	return created, nil
}

func (s *MembershipService) checkInvitable(ctx context.Context, tx *sql.Tx, memberID, groupID int) error {
	if _, err := s.members.GetByID(ctx, memberID); errors.Is(err, sql.ErrNoRows) {
		return ErrMemberNotFound
	} else if err != nil {
		return err
	}

	if _, err := s.participants.FindByMemberAndGroup(ctx, tx, memberID, groupID); err == nil {
		return ErrAlreadyMember
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if _, err := s.waiting.FindByMemberAndGroup(ctx, tx, memberID, groupID); err == nil {
		return ErrAlreadyMember
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

// Accept turns the caller's waiting entry into a MEMBER participant.
func (s *MembershipService) Accept(ctx context.Context, actorID, groupID int, nickname string) (*model.Participant, error) {
	var participant *model.Participant
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		group, err := s.lockGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		w, err := s.waitingOf(ctx, tx, actorID, groupID)
		if err != nil {
			return err
		}

		taken, err := s.participants.NicknameTaken(ctx, tx, groupID, nickname, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateNickname
		}
		if err := s.checkGroupQuota(ctx, tx, actorID); err != nil {
			return err
		}
		if group.MemberCount >= s.rules.MaxGroupMembers {
			return ErrGroupFull
		}

		if err := s.waiting.Delete(ctx, tx, w.ID); err != nil {
			return err
		}
		now := s.now()
		participant = model.NewParticipant(groupID, actorID, nickname, model.RoleMember, now)
		if err := s.participants.Create(ctx, tx, participant); err != nil {
			return err
		}

		group.Accepted(now)
		return s.groups.UpdateCounts(ctx, tx, group)
	})
	if err != nil {
		return nil, err
	}

	transitionLog("accept", groupID, actorID).Info("Invitation accepted")
	return participant, nil
}

// Reject deletes the caller's waiting entry.
func (s *MembershipService) Reject(ctx context.Context, actorID, groupID int) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		group, err := s.lockGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		w, err := s.waitingOf(ctx, tx, actorID, groupID)
		if err != nil {
			return err
		}
		return s.removeWaiting(ctx, tx, group, w)
	})
	if err != nil {
		return err
	}

	transitionLog("reject", groupID, actorID).Info("Invitation rejected")
	return nil
}

// CancelInvite withdraws a pending invitation of memberID.
func (s *MembershipService) CancelInvite(ctx context.Context, actorID, groupID, memberID int) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		group, err := s.lockGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if _, err := s.requireRole(ctx, tx, actorID, groupID, model.RoleManager); err != nil {
			return err
		}
		w, err := s.waitingOf(ctx, tx, memberID, groupID)
		if err != nil {
			return err
		}
		return s.removeWaiting(ctx, tx, group, w)
	})
	if err != nil {
		return err
	}

	transitionLog("cancel_invite", groupID, actorID).WithField("member_id", memberID).Info("Invitation cancelled")
	return nil
}

func (s *MembershipService) removeWaiting(ctx context.Context, tx *sql.Tx, group *model.StudyGroup, w *model.WaitingPeople) error {
	if err := s.waiting.Delete(ctx, tx, w.ID); err != nil {
		return err
	}
	group.WaitingRemoved(s.now())
	return s.groups.UpdateCounts(ctx, tx, group)
}

// ChangeRole toggles a non-leader participant between MEMBER and MANAGER.
func (s *MembershipService) ChangeRole(ctx context.Context, actorID, groupID, participantID int) (*model.Participant, error) {
	var target *model.Participant
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.lockGroup(ctx, tx, groupID); err != nil {
			return err
		}
		if _, err := s.requireRole(ctx, tx, actorID, groupID, model.RoleManager); err != nil {
			return err
		}

		var err error
		target, err = s.targetParticipant(ctx, tx, participantID, groupID)
		if err != nil {
			return err
		}
		if target.Role == model.RoleLeader {
			return ErrPermissionDenied
		}

		target.Role = target.Role.Toggled()
		target.UpdatedAt = s.now()
		return s.participants.UpdateRole(ctx, tx, target)
	})
	if err != nil {
		return nil, err
	}

	transitionLog("change_role", groupID, actorID).WithField("role", target.Role).Info("Participant role changed")
	return target, nil
}

// TransferLeadership makes another participant LEADER and demotes the
// current leader to MANAGER.
func (s *MembershipService) TransferLeadership(ctx context.Context, actorID, groupID, participantID int) (*model.Participant, error) {
	var target *model.Participant
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.lockGroup(ctx, tx, groupID); err != nil {
			return err
		}
		leader, err := s.requireRole(ctx, tx, actorID, groupID, model.RoleLeader)
		if err != nil {
			return err
		}
		target, err = s.targetParticipant(ctx, tx, participantID, groupID)
		if err != nil {
			return err
		}
		if target.ID == leader.ID {
			return ErrPermissionDenied
		}

		now := s.now()
		// Demote first: the schema allows one LEADER row per group.
		leader.Role = model.RoleManager
		leader.UpdatedAt = now
		if err := s.participants.UpdateRole(ctx, tx, leader); err != nil {
			return err
		}
		target.Role = model.RoleLeader
		target.UpdatedAt = now
		return s.participants.UpdateRole(ctx, tx, target)
	})
	if err != nil {
		return nil, err
	}

	transitionLog("transfer_leadership", groupID, actorID).WithField("participant_id", participantID).Info("Leadership transferred")
	return target, nil
}

// Kick removes another participant. Only the leader may kick.
func (s *MembershipService) Kick(ctx context.Context, actorID, groupID, participantID int) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		group, err := s.lockGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		leader, err := s.requireRole(ctx, tx, actorID, groupID, model.RoleLeader)
		if err != nil {
			return err
		}
		target, err := s.targetParticipant(ctx, tx, participantID, groupID)
		if err != nil {
			return err
		}
		if target.ID == leader.ID {
			return ErrPermissionDenied
		}
		return s.removeParticipant(ctx, tx, group, target)
	})
	if err != nil {
		return err
	}

	transitionLog("kick", groupID, actorID).WithField("participant_id", participantID).Info("Participant kicked")
	return nil
}

// Leave removes the caller from the group. The leader has to transfer
// leadership first.
func (s *MembershipService) Leave(ctx context.Context, actorID, groupID int) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		group, err := s.lockGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		self, err := s.participantOf(ctx, tx, actorID, groupID)
		if err != nil {
			return err
		}
		if self.Role == model.RoleLeader {
			return ErrLeaderCannotLeave
		}
		return s.removeParticipant(ctx, tx, group, self)
	})
	if err != nil {
		return err
	}

	transitionLog("leave", groupID, actorID).Info("Participant left")
	return nil
}

func (s *MembershipService) removeParticipant(ctx context.Context, tx *sql.Tx, group *model.StudyGroup, p *model.Participant) error {
	if err := s.participants.Delete(ctx, tx, p.ID); err != nil {
		return err
	}
	group.ParticipantRemoved(s.now())
	return s.groups.UpdateCounts(ctx, tx, group)
}

// ChangeNickname renames the caller within the group.
func (s *MembershipService) ChangeNickname(ctx context.Context, actorID, groupID int, nickname string) (*model.Participant, error) {
	var self *model.Participant
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.lockGroup(ctx, tx, groupID); err != nil {
			return err
		}
		var err error
		self, err = s.participantOf(ctx, tx, actorID, groupID)
		if err != nil {
			return err
		}
		taken, err := s.participants.NicknameTaken(ctx, tx, groupID, nickname, self.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateNickname
		}

		self.Nickname = nickname
		self.UpdatedAt = s.now()
		return s.participants.UpdateNickname(ctx, tx, self)
	})
	if err != nil {
		return nil, err
	}
	return self, nil
}

// DeleteGroup soft-deletes the group. Only the leader may delete it.
func (s *MembershipService) DeleteGroup(ctx context.Context, actorID, groupID int) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.lockGroup(ctx, tx, groupID); err != nil {
			return err
		}
		if _, err := s.requireRole(ctx, tx, actorID, groupID, model.RoleLeader); err != nil {
			return err
		}
		return s.groups.SoftDelete(ctx, tx, groupID, s.now())
	})
	if err != nil {
		return err
	}

	transitionLog("delete", groupID, actorID).Info("Study group deleted")
	return nil
}

func (s *MembershipService) GetGroup(ctx context.Context, groupID int) (*model.StudyGroup, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStudyGroupNotFound
	}
	return group, err
}

func (s *MembershipService) ListMyGroups(ctx context.Context, actorID int) ([]*model.StudyGroup, error) {
	return s.groups.ListByMember(ctx, actorID)
}

func (s *MembershipService) ListMyInvitations(ctx context.Context, actorID int) ([]*model.WaitingPeople, error) {
	return s.waiting.ListByMember(ctx, actorID)
}

// ListParticipants lists the group's participants, optionally filtered by
// role. The caller must be a participant.
func (s *MembershipService) ListParticipants(ctx context.Context, actorID, groupID int, role model.Role) ([]*model.Participant, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if _, err := s.participantOf(ctx, s.db, actorID, groupID); err != nil {
		return nil, err
	}
	if role != "" {
		return s.participants.ListByGroupAndRole(ctx, groupID, role)
	}
	return s.participants.ListByGroup(ctx, groupID)
}

// ListWaiting lists pending invitations. The caller must be MANAGER or above.
func (s *MembershipService) ListWaiting(ctx context.Context, actorID, groupID int) ([]*model.WaitingPeople, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if _, err := s.requireRole(ctx, s.db, actorID, groupID, model.RoleManager); err != nil {
		return nil, err
	}
	return s.waiting.ListByGroup(ctx, groupID)
}

func uniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
