package model

import "time"

type StudyGroup struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	MemberCount  int       `json:"member_count"`
	WaitingCount int       `json:"waiting_count"`
	Deleted      bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewStudyGroup returns a group that already counts its creator as a member.
func NewStudyGroup(name, description string, now time.Time) *StudyGroup {
	return &StudyGroup{
		Name:        name,
		Description: description,
		MemberCount: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Invited accounts for n new waiting entries.
func (g *StudyGroup) Invited(n int, now time.Time) {
	g.WaitingCount += n
	g.UpdatedAt = now
}

// Accepted moves one waiting entry into the participant set.
func (g *StudyGroup) Accepted(now time.Time) {
	g.WaitingCount--
	g.MemberCount++
	g.UpdatedAt = now
}

// WaitingRemoved accounts for a rejected or cancelled invitation.
func (g *StudyGroup) WaitingRemoved(now time.Time) {
	g.WaitingCount--
	g.UpdatedAt = now
}

// ParticipantRemoved accounts for a kick or a leave.
func (g *StudyGroup) ParticipantRemoved(now time.Time) {
	g.MemberCount--
	g.UpdatedAt = now
}

type Participant struct {
	ID        int       `json:"id"`
	GroupID   int       `json:"group_id"`
	MemberID  int       `json:"member_id"`
	Nickname  string    `json:"nickname"`
	Role      Role      `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewParticipant(groupID, memberID int, nickname string, role Role, now time.Time) *Participant {
	return &Participant{
		GroupID:   groupID,
		MemberID:  memberID,
		Nickname:  nickname,
		Role:      role,
		JoinedAt:  now,
		UpdatedAt: now,
	}
}

// WaitingPeople is a pending invitation of a member into a group.
type WaitingPeople struct {
	ID        int       `json:"id"`
	GroupID   int       `json:"group_id"`
	MemberID  int       `json:"member_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewWaitingPeople(groupID, memberID int, now time.Time) *WaitingPeople {
	return &WaitingPeople{GroupID: groupID, MemberID: memberID, CreatedAt: now}
}
