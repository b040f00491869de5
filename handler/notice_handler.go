package handler

import (
	"context"
	"net/http"
	"studygroup-api/common"
	"studygroup-api/model"
)

// NoticeService manages a group's notices.
type NoticeService interface {
	Create(ctx context.Context, actorID, groupID int, req model.NoticeRequest) (*model.Notice, error)
	List(ctx context.Context, actorID, groupID int) ([]*model.Notice, error)
	Get(ctx context.Context, actorID, groupID, noticeID int) (*model.Notice, error)
	Update(ctx context.Context, actorID, groupID, noticeID int, req model.NoticeRequest) (*model.Notice, error)
	Delete(ctx context.Context, actorID, groupID, noticeID int) error
}

type NoticeHandler struct {
	notices NoticeService
	groups  *GroupHandler
}

// NewNoticeHandler reuses the group handler's caller and path resolution.
func NewNoticeHandler(notices NoticeService, members MemberService) *NoticeHandler {
	return &NoticeHandler{notices: notices, groups: &GroupHandler{members: members}}
}

// ListNotices godoc
// @Summary      List notices of a group
// @Tags         notices
// @Produce      json
// @Security     BearerAuth
// @Param        groupId  path      int  true  "Group ID"
// @Success      200      {array}   model.Notice
// @Failure      403      {object}  common.AppError
// @Router       /api/groups/{groupId}/notices [get]
func (h *NoticeHandler) ListNotices(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, appErr := h.groups.groupRequest(r)
	if appErr != nil {
		return appErr
	}
	notices, err := h.notices.List(r.Context(), actorID, groupID)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusOK, notices)
	return nil
}

// CreateNotice godoc
// @Summary      Post a notice
// @Tags         notices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        groupId  path      int                  true  "Group ID"
// @Param        request  body      model.NoticeRequest  true  "Notice"
// @Success      201      {object}  model.Notice
// @Failure      403      {object}  common.AppError
// @Router       /api/groups/{groupId}/notices [post]
func (h *NoticeHandler) CreateNotice(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, appErr := h.groups.groupRequest(r)
	if appErr != nil {
		return appErr
	}
	var req model.NoticeRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	notice, err := h.notices.Create(r.Context(), actorID, groupID, req)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusCreated, notice)
	return nil
}

// GetNotice godoc
// @Summary      Show a notice
// @Tags         notices
// @Produce      json
// @Security     BearerAuth
// @Param        groupId   path      int  true  "Group ID"
// @Param        noticeId  path      int  true  "Notice ID"
// @Success      200       {object}  model.Notice
// @Failure      404       {object}  common.AppError
// @Router       /api/groups/{groupId}/notices/{noticeId} [get]
func (h *NoticeHandler) GetNotice(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, noticeID, appErr := h.groups.targetRequest(r, "noticeId")
	if appErr != nil {
		return appErr
	}
	notice, err := h.notices.Get(r.Context(), actorID, groupID, noticeID)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusOK, notice)
	return nil
}

// UpdateNotice godoc
// @Summary      Edit a notice
// @Tags         notices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        groupId   path      int                  true  "Group ID"
// @Param        noticeId  path      int                  true  "Notice ID"
// @Param        request   body      model.NoticeRequest  true  "Notice"
// @Success      200       {object}  model.Notice
// @Failure      403       {object}  common.AppError
// @Router       /api/groups/{groupId}/notices/{noticeId} [put]
func (h *NoticeHandler) UpdateNotice(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, noticeID, appErr := h.groups.targetRequest(r, "noticeId")
	if appErr != nil {
		return appErr
	}
	var req model.NoticeRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	notice, err := h.notices.Update(r.Context(), actorID, groupID, noticeID, req)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusOK, notice)
	return nil
}

// DeleteNotice godoc
// @Summary      Delete a notice
// @Tags         notices
// @Security     BearerAuth
// @Param        groupId   path  int  true  "Group ID"
// @Param        noticeId  path  int  true  "Notice ID"
// @Success      204
// @Failure      403  {object}  common.AppError
// @Router       /api/groups/{groupId}/notices/{noticeId} [delete]
func (h *NoticeHandler) DeleteNotice(w http.ResponseWriter, r *http.Request) *common.AppError {
	actorID, groupID, noticeID, appErr := h.groups.targetRequest(r, "noticeId")
	if appErr != nil {
		return appErr
	}
	if err := h.notices.Delete(r.Context(), actorID, groupID, noticeID); err != nil {
		return mapError(err)
	}
	noContent(w)
	return nil
}
