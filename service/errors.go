package service

import "errors"

// Authentication errors.
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrBlacklistedToken    = errors.New("token has been revoked")
	ErrMissingAuthorities  = errors.New("token carries no authorities")
	ErrEmptyAuthorities    = errors.New("token authorities are empty")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrUnauthenticated     = errors.New("authentication required")
)

// Membership errors.
var (
	ErrUnauthorized        = errors.New("caller is not a participant of this group")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrAlreadyMember       = errors.New("member is already invited or participating")
	ErrDuplicateNickname   = errors.New("nickname is already used in this group")
	ErrGroupFull           = errors.New("group is full")
	ErrMaxGroupsExceeded   = errors.New("member has joined the maximum number of groups")
	ErrLeaderCannotLeave   = errors.New("leader must transfer leadership before leaving")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrWaitingNotFound     = errors.New("invitation not found")
)

// Not found errors.
var (
	ErrStudyGroupNotFound = errors.New("study group not found")
	ErrNoticeNotFound     = errors.New("notice not found")
	ErrMemberNotFound     = errors.New("member not found")
)

// IsAuthError reports whether err belongs to the authentication taxonomy.
func IsAuthError(err error) bool {
	return errorsIsAny(err, ErrUnauthenticated, ErrInvalidCredentials, ErrInvalidToken, ErrExpiredToken,
		ErrBlacklistedToken, ErrMissingAuthorities, ErrEmptyAuthorities, ErrInvalidRefreshToken)
}

// IsMembershipError reports whether err is a membership rule violation.
func IsMembershipError(err error) bool {
	return errorsIsAny(err, ErrUnauthorized, ErrPermissionDenied, ErrAlreadyMember,
		ErrDuplicateNickname, ErrGroupFull, ErrMaxGroupsExceeded, ErrLeaderCannotLeave,
		ErrParticipantNotFound, ErrWaitingNotFound)
}

// IsNotFoundError reports whether err names a missing entity.
func IsNotFoundError(err error) bool {
	return errorsIsAny(err, ErrStudyGroupNotFound, ErrNoticeNotFound, ErrMemberNotFound,
		ErrParticipantNotFound, ErrWaitingNotFound)
}

func errorsIsAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
