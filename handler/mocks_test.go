package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"studygroup-api/model"
)

type mockTokens struct{ mock.Mock }

func (m *mockTokens) Authenticate(ctx context.Context, token string) (*model.Identity, error) {
	args := m.Called(token)
	identity, _ := args.Get(0).(*model.Identity)
	return identity, args.Error(1)
}

type mockAuth struct{ mock.Mock }

func (m *mockAuth) SignUp(ctx context.Context, req model.SignUpRequest) (*model.Member, error) {
	args := m.Called(req)
	member, _ := args.Get(0).(*model.Member)
	return member, args.Error(1)
}

func (m *mockAuth) Login(ctx context.Context, req model.LoginRequest) (*model.TokenPair, error) {
	args := m.Called(req)
	pair, _ := args.Get(0).(*model.TokenPair)
	return pair, args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context, accessToken, refreshToken string) error {
	return m.Called(accessToken, refreshToken).Error(0)
}

func (m *mockAuth) Reissue(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	args := m.Called(refreshToken)
	pair, _ := args.Get(0).(*model.TokenPair)
	return pair, args.Error(1)
}

type mockMembers struct{ mock.Mock }

func (m *mockMembers) Current(ctx context.Context, identity *model.Identity) (*model.Member, error) {
	args := m.Called(identity.Email)
	member, _ := args.Get(0).(*model.Member)
	return member, args.Error(1)
}

type mockMembership struct{ mock.Mock }

func (m *mockMembership) CreateGroup(ctx context.Context, actorID int, req model.CreateGroupRequest) (*model.StudyGroup, error) {
	args := m.Called(actorID, req)
	g, _ := args.Get(0).(*model.StudyGroup)
	return g, args.Error(1)
}

func (m *mockMembership) GetGroup(ctx context.Context, groupID int) (*model.StudyGroup, error) {
	args := m.Called(groupID)
	g, _ := args.Get(0).(*model.StudyGroup)
	return g, args.Error(1)
}

func (m *mockMembership) DeleteGroup(ctx context.Context, actorID, groupID int) error {
	return m.Called(actorID, groupID).Error(0)
}

func (m *mockMembership) ListMyGroups(ctx context.Context, actorID int) ([]*model.StudyGroup, error) {
	args := m.Called(actorID)
	groups, _ := args.Get(0).([]*model.StudyGroup)
	return groups, args.Error(1)
}

func (m *mockMembership) ListMyInvitations(ctx context.Context, actorID int) ([]*model.WaitingPeople, error) {
	args := m.Called(actorID)
	waiting, _ := args.Get(0).([]*model.WaitingPeople)
	return waiting, args.Error(1)
}

func (m *mockMembership) ListParticipants(ctx context.Context, actorID, groupID int, role model.Role) ([]*model.Participant, error) {
	args := m.Called(actorID, groupID, role)
	ps, _ := args.Get(0).([]*model.Participant)
	return ps, args.Error(1)
}

func (m *mockMembership) ListWaiting(ctx context.Context, actorID, groupID int) ([]*model.WaitingPeople, error) {
	args := m.Called(actorID, groupID)
	waiting, _ := args.Get(0).([]*model.WaitingPeople)
	return waiting, args.Error(1)
}

func (m *mockMembership) Invite(ctx context.Context, actorID, groupID int, memberIDs []int) ([]*model.WaitingPeople, error) {
	args := m.Called(actorID, groupID, memberIDs)
	waiting, _ := args.Get(0).([]*model.WaitingPeople)
	return waiting, args.Error(1)
}

func (m *mockMembership) Accept(ctx context.Context, actorID, groupID int, nickname string) (*model.Participant, error) {
	args := m.Called(actorID, groupID, nickname)
	p, _ := args.Get(0).(*model.Participant)
	return p, args.Error(1)
}

func (m *mockMembership) Reject(ctx context.Context, actorID, groupID int) error {
	return m.Called(actorID, groupID).Error(0)
}

func (m *mockMembership) CancelInvite(ctx context.Context, actorID, groupID, memberID int) error {
	return m.Called(actorID, groupID, memberID).Error(0)
}

func (m *mockMembership) ChangeRole(ctx context.Context, actorID, groupID, participantID int) (*model.Participant, error) {
	args := m.Called(actorID, groupID, participantID)
	p, _ := args.Get(0).(*model.Participant)
	return p, args.Error(1)
}

func (m *mockMembership) TransferLeadership(ctx context.Context, actorID, groupID, participantID int) (*model.Participant, error) {
	args := m.Called(actorID, groupID, participantID)
	p, _ := args.Get(0).(*model.Participant)
	return p, args.Error(1)
}

func (m *mockMembership) Kick(ctx context.Context, actorID, groupID, participantID int) error {
	return m.Called(actorID, groupID, participantID).Error(0)
}

func (m *mockMembership) Leave(ctx context.Context, actorID, groupID int) error {
	return m.Called(actorID, groupID).Error(0)
}

func (m *mockMembership) ChangeNickname(ctx context.Context, actorID, groupID int, nickname string) (*model.Participant, error) {
	args := m.Called(actorID, groupID, nickname)
	p, _ := args.Get(0).(*model.Participant)
	return p, args.Error(1)
}

type mockNotices struct{ mock.Mock }

func (m *mockNotices) Create(ctx context.Context, actorID, groupID int, req model.NoticeRequest) (*model.Notice, error) {
	args := m.Called(actorID, groupID, req)
	n, _ := args.Get(0).(*model.Notice)
	return n, args.Error(1)
}

func (m *mockNotices) List(ctx context.Context, actorID, groupID int) ([]*model.Notice, error) {
	args := m.Called(actorID, groupID)
	ns, _ := args.Get(0).([]*model.Notice)
	return ns, args.Error(1)
}

func (m *mockNotices) Get(ctx context.Context, actorID, groupID, noticeID int) (*model.Notice, error) {
	args := m.Called(actorID, groupID, noticeID)
	n, _ := args.Get(0).(*model.Notice)
	return n, args.Error(1)
}

func (m *mockNotices) Update(ctx context.Context, actorID, groupID, noticeID int, req model.NoticeRequest) (*model.Notice, error) {
	args := m.Called(actorID, groupID, noticeID, req)
	n, _ := args.Get(0).(*model.Notice)
	return n, args.Error(1)
}

func (m *mockNotices) Delete(ctx context.Context, actorID, groupID, noticeID int) error {
	return m.Called(actorID, groupID, noticeID).Error(0)
}

var (
	_ TokenAuthenticator = (*mockTokens)(nil)
	_ AuthService        = (*mockAuth)(nil)
	_ MemberService      = (*mockMembers)(nil)
	_ MembershipService  = (*mockMembership)(nil)
	_ NoticeService      = (*mockNotices)(nil)
)
