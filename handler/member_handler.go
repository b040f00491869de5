package handler

import (
	"context"
	"net/http"
	"studygroup-api/common"
	"studygroup-api/model"
)

// MemberService resolves the authenticated identity to its member account.
type MemberService interface {
	Current(ctx context.Context, identity *model.Identity) (*model.Member, error)
}

// currentMember returns the member behind the request's identity.
func currentMember(r *http.Request, members MemberService) (*model.Member, *common.AppError) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		return nil, common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}
	member, err := members.Current(r.Context(), identity)
	if err != nil {
		return nil, mapError(err)
	}
	return member, nil
}

type MemberHandler struct {
	members MemberService
}

func NewMemberHandler(members MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// Me godoc
// @Summary      Show the authenticated member
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.Member
// @Failure      401  {object}  common.AppError
// @Router       /api/members/me [get]
func (h *MemberHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	member, appErr := currentMember(r, h.members)
	if appErr != nil {
		return appErr
	}
	common.WriteJSON(w, http.StatusOK, member)
	return nil
}
