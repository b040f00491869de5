// file: model/request.go

package model

// SignUpRequest defines the payload for creating a new member account.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

// LoginRequest defines the payload for member authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenRequest carries a refresh token for reissue and logout.
type TokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=2000"`
	Nickname    string `json:"nickname" validate:"required,min=1,max=50"`
}

// InviteRequest lists the members selected for invitation.
type InviteRequest struct {
	MemberIDs []int `json:"member_ids" validate:"required,min=1,dive,gt=0"`
}

type NicknameRequest struct {
	Nickname string `json:"nickname" validate:"required,min=1,max=50"`
}

type NoticeRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required"`
}
