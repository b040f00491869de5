package handler

import (
	"context"
	"net/http"
	"studygroup-api/common"
	"studygroup-api/logger"
	"studygroup-api/model"

	"github.com/sirupsen/logrus"
)

// MembershipService is the group membership state machine.
type MembershipService interface {
	CreateGroup(ctx context.Context, actorID int, req model.CreateGroupRequest) (*model.StudyGroup, error)
	GetGroup(ctx context.Context, groupID int) (*model.StudyGroup, error)
	DeleteGroup(ctx context.Context, actorID, groupID int) error
	ListMyGroups(ctx context.Context, actorID int) ([]*model.StudyGroup, error)
	ListMyInvitations(ctx context.Context, actorID int) ([]*model.WaitingPeople, error)
	ListParticipants(ctx context.Context, actorID, groupID int, role model.Role) ([]*model.Participant, error)
	ListWaiting(ctx context.Context, actorID, groupID int) ([]*model.WaitingPeople, error)
	Invite(ctx context.Context, actorID, groupID int, memberIDs []int) ([]*model.WaitingPeople, error)
	Accept(ctx context.Context, actorID, groupID int, nickname string) (*model.Participant, error)
	Reject(ctx context.Context, actorID, groupID int) error
	CancelInvite(ctx context.Context, actorID, groupID, memberID int) error
	ChangeRole(ctx context.Context, actorID, groupID, participantID int) (*model.Participant, error)
	TransferLeadership(ctx context.Context, actorID, groupID, participantID int) (*model.Participant, error)
	Kick(ctx context.Context, actorID, groupID, participantID int) error
	Leave(ctx context.Context, actorID, groupID int) error
	ChangeNickname(ctx context.Context, actorID, groupID int, nickname string) (*model.Participant, error)
}

type GroupHandler struct {
	groups  MembershipService
	members MemberService
}

func NewGroupHandler(groups MembershipService, members MemberService) *GroupHandler {
	return &GroupHandler{groups: groups, members: members}
}

// groupRequest resolves the caller and the {groupId} path value.
func (h *GroupHandler) groupRequest(r *http.Request) (actorID, groupID int, appErr *common.AppError) {
	member, appErr := currentMember(r, h.members)
	if appErr != nil {
		return 0, 0, appErr
	}
	groupID, appErr = pathID(r, "groupId")
	if appErr != nil {
		return 0, 0, appErr
	}
	return member.ID, groupID, nil
}

func (h *GroupHandler) targetRequest(r *http.Request, name string) (actorID, groupID, targetID int, appErr *common.AppError) {
	actorID, groupID, appErr = h.groupRequest(r)
	if appErr != nil {
		return 0, 0, 0, appErr
	}
	targetID, appErr = pathID(r, name)
	if appErr != nil {
		return 0, 0, 0, appErr
	}
	return actorID, groupID, targetID, nil
}

func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// CreateGroup godoc
// @Summary      Create a study group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      model.CreateGroupRequest  true  "Group"
// @Success      201      {object}  model.StudyGroup
// @Failure      403      {object}  common.AppError
// @Router       /api/groups [post]
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) *common.AppError {
	member, appErr := currentMember(r, h.members)
	if appErr != nil {
		return appErr
	}
	var req model.CreateGroupRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	logger.Log.WithFields(logrus.Fields{
		"member_id": member.ID,
		"name":      req.Name,
	}).Info("Create group request received")

	group, err := h.groups.CreateGroup(r.Context(), member.ID, req)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusCreated, group)
	return nil
}

// ListMyGroups godoc
// @Summary      List the caller's groups
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  model.StudyGroup
// @Router       /api/groups [get]
func (h *GroupHandler) ListMyGroups(w http.ResponseWriter, r *http.Request) *common.AppError {
	member, appErr := currentMember(r, h.members)
	if appErr != nil {
		return appErr
	}
	groups, err := h.groups.ListMyGroups(r.Context(), member.ID)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusOK, groups)
	return nil
}

// ListMyInvitations godoc
// @Summary      List the caller's pending invitations
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  model.WaitingPeople
// @Router       /api/invitations [get]
func (h *GroupHandler) ListMyInvitations(w http.ResponseWriter, r *http.Request) *common.AppError {
	member, appErr := currentMember(r, h.members)
	if appErr != nil {
		return appErr
	}
	invitations, err := h.groups.ListMyInvitations(r.Context(), member.ID)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusOK, invitations)
	return nil
}

// GetGroup godoc
// @Summary      Show a study group
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        groupId  path      int  true  "Group ID"
// @Success      200      {object}  model.StudyGroup
// @Failure      404      {object}  common.AppError
// @Router       /api/groups/{groupId} [get]
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) *common.AppError {
	groupID, appErr := pathID(r, "groupId")
	if appErr != nil {
		return appErr
	}
	group, err := h.groups.GetGroup(r.Context(), groupID)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusOK, group)
	return nil
}

// DeleteGroup godoc
// @Summary      Delete a study group
// @Tags         groups
// @Security     BearerAuth
// @Param        groupId  path  int  true  "Group ID"
// @Success      204
// @Failure      403  {object}  common.AppError
// @Router       /api/groups/{groupId} [delete]
func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, appErr := h.groupRequest(r)
	if appErr != nil {
		return appErr
	}
	if err := h.groups.DeleteGroup(r.Context(), actorID, groupID); err != nil {
		return mapError(err)
	}
	noContent(w)
	return nil
}

// ListParticipants godoc
// @Summary      List participants
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Param        groupId  path      int     true   "Group ID"
// @Param        role     query     string  false  "Role filter"
// @Success      200      {array}   model.Participant
// @Failure      403      {object}  common.AppError
// @Router       /api/groups/{groupId}/participants [get]
func (h *GroupHandler) ListParticipants(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, appErr := h.groupRequest(r)
	if appErr != nil {
		return appErr
	}
	role := model.Role(r.URL.Query().Get("role"))
	if role != "" && !role.IsValid() {
		return common.NewAppError(http.StatusBadRequest, "Invalid role", nil)
	}

	participants, err := h.groups.ListParticipants(r.Context(), actorID, groupID, role)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusOK, participants)
	return nil
}

// ChangeNickname godoc
// @Summary      Change the caller's nickname
// @Tags         participants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        groupId  path      int                    true  "Group ID"
// @Param        request  body      model.NicknameRequest  true  "Nickname"
// @Success      200      {object}  model.Participant
// @Failure      403      {object}  common.AppError
// @Router       /api/groups/{groupId}/participants/me/nickname [patch]
func (h *GroupHandler) ChangeNickname(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, appErr := h.groupRequest(r)
	if appErr != nil {
		return appErr
	}
	var req model.NicknameRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	p, err := h.groups.ChangeNickname(r.Context(), actorID, groupID, req.Nickname)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusOK, p)
	return nil
}

// Leave godoc
// @Summary      Leave a group
// @Tags         participants
// @Security     BearerAuth
// @Param        groupId  path  int  true  "Group ID"
// @Success      204
// @Failure      403  {object}  common.AppError
// @Router       /api/groups/{groupId}/participants/me [delete]
func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, appErr := h.groupRequest(r)
	if appErr != nil {
		return appErr
	}
	if err := h.groups.Leave(r.Context(), actorID, groupID); err != nil {
		return mapError(err)
	}
	noContent(w)
	return nil
}

// ChangeRole godoc
// @Summary      Toggle a participant between MEMBER and MANAGER
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Param        groupId        path      int  true  "Group ID"
// @Param        participantId  path      int  true  "Participant ID"
// @Success      200            {object}  model.Participant
// @Failure      403            {object}  common.AppError
// @Failure      404            {object}  common.AppError
// @Router       /api/groups/{groupId}/participants/{participantId}/role [patch]
func (h *GroupHandler) ChangeRole(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, participantID, appErr := h.targetRequest(r, "participantId")
	if appErr != nil {
		return appErr
	}
	p, err := h.groups.ChangeRole(r.Context(), actorID, groupID, participantID)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusOK, p)
	return nil
}

// TransferLeadership godoc
// @Summary      Hand the LEADER role to another participant
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Param        groupId        path      int  true  "Group ID"
// @Param        participantId  path      int  true  "Participant ID"
// @Success      200            {object}  model.Participant
// @Failure      403            {object}  common.AppError
// @Router       /api/groups/{groupId}/participants/{participantId}/leader [post]
func (h *GroupHandler) TransferLeadership(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, participantID, appErr := h.targetRequest(r, "participantId")
	if appErr != nil {
		return appErr
	}
	p, err := h.groups.TransferLeadership(r.Context(), actorID, groupID, participantID)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusOK, p)
	return nil
}

// Kick godoc
// @Summary      Remove a participant
// @Tags         participants
// @Security     BearerAuth
// @Param        groupId        path  int  true  "Group ID"
// @Param        participantId  path  int  true  "Participant ID"
// @Success      204
// @Failure      403  {object}  common.AppError
// @Router       /api/groups/{groupId}/participants/{participantId} [delete]
func (h *GroupHandler) Kick(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, participantID, appErr := h.targetRequest(r, "participantId")
	if appErr != nil {
		return appErr
	}
	if err := h.groups.Kick(r.Context(), actorID, groupID, participantID); err != nil {
		return mapError(err)
	}
	noContent(w)
	return nil
}

// ListWaiting godoc
// @Summary      List pending invitations of a group
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        groupId  path      int  true  "Group ID"
// @Success      200      {array}   model.WaitingPeople
// @Failure      403      {object}  common.AppError
// @Router       /api/groups/{groupId}/invitations [get]
func (h *GroupHandler) ListWaiting(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, appErr := h.groupRequest(r)
	if appErr != nil {
		return appErr
	}
	waiting, err := h.groups.ListWaiting(r.Context(), actorID, groupID)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusOK, waiting)
	return nil
}

// Invite godoc
// @Summary      Invite members
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        groupId  path      int                  true  "Group ID"
// @Param        request  body      model.InviteRequest  true  "Invitees"
// @Success      201      {array}   model.WaitingPeople
// @Failure      403      {object}  common.AppError
// @Router       /api/groups/{groupId}/invitations [post]
func (h *GroupHandler) Invite(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, appErr := h.groupRequest(r)
	if appErr != nil {
		return appErr
	}
	var req model.InviteRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	logger.Log.WithFields(logrus.Fields{
		"member_id": actorID,
		"group_id":  groupID,
		"invitees":  len(req.MemberIDs),
	}).Info("Invite request received")

	waiting, err := h.groups.Invite(r.Context(), actorID, groupID, req.MemberIDs)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusCreated, waiting)
	return nil
}

// CancelInvite godoc
// @Summary      Withdraw an invitation
// @Tags         invitations
// @Security     BearerAuth
// @Param        groupId   path  int  true  "Group ID"
// @Param        memberId  path  int  true  "Invited member ID"
// @Success      204
// @Failure      403  {object}  common.AppError
// @Router       /api/groups/{groupId}/invitations/{memberId} [delete]
func (h *GroupHandler) CancelInvite(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, memberID, appErr := h.targetRequest(r, "memberId")
	if appErr != nil {
		return appErr
	}
	if err := h.groups.CancelInvite(r.Context(), actorID, groupID, memberID); err != nil {
		return mapError(err)
	}
	noContent(w)
	return nil
}

// Accept godoc
// @Summary      Accept an invitation
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        groupId  path      int                    true  "Group ID"
// @Param        request  body      model.NicknameRequest  true  "Nickname in the group"
// @Success      201      {object}  model.Participant
// @Failure      403      {object}  common.AppError
// @Router       /api/groups/{groupId}/invitations/accept [post]
func (h *GroupHandler) Accept(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, appErr := h.groupRequest(r)
	if appErr != nil {
		return appErr
	}
	var req model.NicknameRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	p, err := h.groups.Accept(r.Context(), actorID, groupID, req.Nickname)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusCreated, p)
	return nil
}

// Reject godoc
// @Summary      Reject an invitation
// @Tags         invitations
// @Security     BearerAuth
// @Param        groupId  path  int  true  "Group ID"
// @Success      204
// @Failure      403  {object}  common.AppError
// @Router       /api/groups/{groupId}/invitations/reject [post]
func (h *GroupHandler) Reject(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, appErr := h.groupRequest(r)
	if appErr != nil {
		return appErr
	}
	if err := h.groups.Reject(r.Context(), actorID, groupID); err != nil {
		return mapError(err)
	}
	noContent(w)
	return nil
}
