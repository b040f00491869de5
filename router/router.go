package router

import (
	"net/http"
	"studygroup-api/common"
	"studygroup-api/handler"

	_ "studygroup-api/docs"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Tokens  handler.TokenAuthenticator
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Members *handler.MemberHandler
	Groups  *handler.GroupHandler
	Notices *handler.NoticeHandler
}

func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()

	public := func(fn func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
		return handler.ErrorHandlingMiddleware(fn)
	}
	protected := func(fn func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
		return handler.RequireIdentity(handler.ErrorHandlingMiddleware(fn))
	}

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	mux.Handle("POST /api/auth/signup", public(h.Auth.SignUp))
	mux.Handle("POST /api/auth/login", public(h.Auth.Login))
	mux.Handle("POST /api/auth/logout", public(h.Auth.Logout))
	mux.Handle("POST /api/auth/reissue", public(h.Auth.Reissue))

	mux.Handle("GET /api/members/me", protected(h.Members.Me))
	mux.Handle("GET /api/invitations", protected(h.Groups.ListMyInvitations))

	mux.Handle("POST /api/groups", protected(h.Groups.CreateGroup))
	mux.Handle("GET /api/groups", protected(h.Groups.ListMyGroups))
	mux.Handle("GET /api/groups/{groupId}", protected(h.Groups.GetGroup))
	mux.Handle("DELETE /api/groups/{groupId}", protected(h.Groups.DeleteGroup))

	mux.Handle("GET /api/groups/{groupId}/participants", protected(h.Groups.ListParticipants))
	mux.Handle("PATCH /api/groups/{groupId}/participants/me/nickname", protected(h.Groups.ChangeNickname))
	mux.Handle("DELETE /api/groups/{groupId}/participants/me", protected(h.Groups.Leave))
	mux.Handle("PATCH /api/groups/{groupId}/participants/{participantId}/role", protected(h.Groups.ChangeRole))
	mux.Handle("POST /api/groups/{groupId}/participants/{participantId}/leader", protected(h.Groups.TransferLeadership))
	mux.Handle("DELETE /api/groups/{groupId}/participants/{participantId}", protected(h.Groups.Kick))

	mux.Handle("GET /api/groups/{groupId}/invitations", protected(h.Groups.ListWaiting))
	mux.Handle("POST /api/groups/{groupId}/invitations", protected(h.Groups.Invite))
	mux.Handle("DELETE /api/groups/{groupId}/invitations/{memberId}", protected(h.Groups.CancelInvite))
	mux.Handle("POST /api/groups/{groupId}/invitations/accept", protected(h.Groups.Accept))
	mux.Handle("POST /api/groups/{groupId}/invitations/reject", protected(h.Groups.Reject))

	mux.Handle("GET /api/groups/{groupId}/notices", protected(h.Notices.ListNotices))
	mux.Handle("POST /api/groups/{groupId}/notices", protected(h.Notices.CreateNotice))
	mux.Handle("GET /api/groups/{groupId}/notices/{noticeId}", protected(h.Notices.GetNotice))
	mux.Handle("PUT /api/groups/{groupId}/notices/{noticeId}", protected(h.Notices.UpdateNotice))
	mux.Handle("DELETE /api/groups/{groupId}/notices/{noticeId}", protected(h.Notices.DeleteNotice))

	return handler.AuthMiddleware(h.Tokens)(mux)
}
