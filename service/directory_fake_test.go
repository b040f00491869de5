package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"studygroup-api/model"
	"studygroup-api/repository"
)

// fakeDirectory is an in-memory Group Directory. Finders return copies so
// that, like a real database, unsaved mutations are not visible.
type fakeDirectory struct {
	mu           sync.Mutex
	nextID       int
	members      map[int]model.Member
	groups       map[int]model.StudyGroup
	participants map[int]model.Participant
	waiting      map[int]model.WaitingPeople
	notices      map[int]model.Notice
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		members:      map[int]model.Member{},
		groups:       map[int]model.StudyGroup{},
		participants: map[int]model.Participant{},
		waiting:      map[int]model.WaitingPeople{},
		notices:      map[int]model.Notice{},
	}
}

func (d *fakeDirectory) id() int {
	d.nextID++
	return d.nextID
}

func (d *fakeDirectory) addMember(email string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	m := model.NewMember(email, "hash", email, time.Now())
	m.ID = d.id()
	d.members[m.ID] = *m
	return m.ID
}

// recount scans the rows of a group.
func (d *fakeDirectory) recount(groupID int) (members, waiting int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.participants {
		if p.GroupID == groupID {
			members++
		}
	}
	for _, w := range d.waiting {
		if w.GroupID == groupID {
			waiting++
		}
	}
	return members, waiting
}

func (d *fakeDirectory) leaders(groupID int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, p := range d.participants {
		if p.GroupID == groupID && p.Role == model.RoleLeader {
			n++
		}
	}
	return n
}

func (d *fakeDirectory) group(id int) model.StudyGroup {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.groups[id]
}

// --- members ---

type fakeMembers struct{ *fakeDirectory }

func (f fakeMembers) Create(_ context.Context, m *model.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = f.id()
	f.members[m.ID] = *m
	return nil
}

func (f fakeMembers) GetByEmail(_ context.Context, email string) (*model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.Email == email {
			c := m
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeMembers) GetByID(_ context.Context, id int) (*model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &m, nil
}

func (f fakeMembers) TouchLastLogin(_ context.Context, id int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.members[id]
	m.LastLoginAt = &at
	f.members[id] = m
	return nil
}

// --- groups ---

type fakeGroups struct{ *fakeDirectory }

func (f fakeGroups) Create(_ context.Context, _ *sql.Tx, g *model.StudyGroup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g.ID = f.id()
	f.groups[g.ID] = *g
	return nil
}

func (f fakeGroups) GetByID(_ context.Context, id int) (*model.StudyGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[id]
	if !ok || g.Deleted {
		return nil, sql.ErrNoRows
	}
	return &g, nil
}

func (f fakeGroups) GetForUpdate(ctx context.Context, _ *sql.Tx, id int) (*model.StudyGroup, error) {
	return f.GetByID(ctx, id)
}

func (f fakeGroups) UpdateCounts(_ context.Context, _ *sql.Tx, g *model.StudyGroup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.groups[g.ID]
	stored.MemberCount = g.MemberCount
	stored.WaitingCount = g.WaitingCount
	stored.UpdatedAt = g.UpdatedAt
	f.groups[g.ID] = stored
	return nil
}

func (f fakeGroups) SoftDelete(_ context.Context, _ *sql.Tx, id int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := f.groups[id]
	g.Deleted = true
	g.UpdatedAt = at
	f.groups[id] = g
	return nil
}

func (f fakeGroups) ListByMember(_ context.Context, memberID int) ([]*model.StudyGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.StudyGroup
	for _, p := range f.participants {
		if g, ok := f.groups[p.GroupID]; ok && p.MemberID == memberID && !g.Deleted {
			c := g
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- participants ---

type fakeParticipants struct{ *fakeDirectory }

func (f fakeParticipants) Create(_ context.Context, _ *sql.Tx, p *model.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.id()
	f.participants[p.ID] = *p
	return nil
}

func (f fakeParticipants) find(match func(model.Participant) bool) (*model.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.participants {
		if match(p) {
			c := p
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeParticipants) FindByMemberAndGroup(_ context.Context, _ repository.Querier, memberID, groupID int) (*model.Participant, error) {
	return f.find(func(p model.Participant) bool { return p.MemberID == memberID && p.GroupID == groupID })
}

func (f fakeParticipants) FindByIDAndGroup(_ context.Context, _ repository.Querier, id, groupID int) (*model.Participant, error) {
	return f.find(func(p model.Participant) bool { return p.ID == id && p.GroupID == groupID })
}

func (f fakeParticipants) NicknameTaken(_ context.Context, _ repository.Querier, groupID int, nickname string, excludeID int) (bool, error) {
	_, err := f.find(func(p model.Participant) bool {
		return p.GroupID == groupID && p.Nickname == nickname && p.ID != excludeID
	})
	return err == nil, nil
}

func (f fakeParticipants) CountByMember(_ context.Context, _ repository.Querier, memberID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.participants {
		if p.MemberID == memberID && !f.groups[p.GroupID].Deleted {
			n++
		}
	}
	return n, nil
}

func (f fakeParticipants) UpdateRole(_ context.Context, _ *sql.Tx, p *model.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.participants[p.ID]
	stored.Role = p.Role
	stored.UpdatedAt = p.UpdatedAt
	f.participants[p.ID] = stored
	return nil
}

func (f fakeParticipants) UpdateNickname(_ context.Context, _ *sql.Tx, p *model.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.participants[p.ID]
	stored.Nickname = p.Nickname
	stored.UpdatedAt = p.UpdatedAt
	f.participants[p.ID] = stored
	return nil
}

func (f fakeParticipants) Delete(_ context.Context, _ *sql.Tx, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.participants, id)
	return nil
}

func (f fakeParticipants) list(match func(model.Participant) bool) []*model.Participant {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Participant
	for _, p := range f.participants {
		if match(p) {
			c := p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f fakeParticipants) ListByGroup(_ context.Context, groupID int) ([]*model.Participant, error) {
	return f.list(func(p model.Participant) bool { return p.GroupID == groupID }), nil
}

func (f fakeParticipants) ListByGroupAndRole(_ context.Context, groupID int, role model.Role) ([]*model.Participant, error) {
	return f.list(func(p model.Participant) bool { return p.GroupID == groupID && p.Role == role }), nil
}

// --- waiting ---

type fakeWaiting struct{ *fakeDirectory }

func (f fakeWaiting) Create(_ context.Context, _ *sql.Tx, w *model.WaitingPeople) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.ID = f.id()
	f.waiting[w.ID] = *w
	return nil
}

func (f fakeWaiting) FindByMemberAndGroup(_ context.Context, _ repository.Querier, memberID, groupID int) (*model.WaitingPeople, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.waiting {
		if w.MemberID == memberID && w.GroupID == groupID {
			c := w
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeWaiting) Delete(_ context.Context, _ *sql.Tx, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.waiting, id)
	return nil
}

func (f fakeWaiting) list(match func(model.WaitingPeople) bool) []*model.WaitingPeople {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.WaitingPeople
	for _, w := range f.waiting {
		if match(w) {
			c := w
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f fakeWaiting) ListByGroup(_ context.Context, groupID int) ([]*model.WaitingPeople, error) {
	return f.list(func(w model.WaitingPeople) bool { return w.GroupID == groupID }), nil
}

func (f fakeWaiting) ListByMember(_ context.Context, memberID int) ([]*model.WaitingPeople, error) {
	return f.list(func(w model.WaitingPeople) bool { return w.MemberID == memberID }), nil
}

// --- notices ---

type fakeNotices struct{ *fakeDirectory }

func (f fakeNotices) Create(_ context.Context, n *model.Notice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = f.id()
	f.notices[n.ID] = *n
	return nil
}

func (f fakeNotices) GetByID(_ context.Context, id, groupID int) (*model.Notice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notices[id]
	if !ok || n.GroupID != groupID {
		return nil, sql.ErrNoRows
	}
	return &n, nil
}

func (f fakeNotices) ListByGroup(_ context.Context, groupID int) ([]*model.Notice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Notice
	for _, n := range f.notices {
		if n.GroupID == groupID {
			c := n
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f fakeNotices) Update(_ context.Context, n *model.Notice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices[n.ID] = *n
	return nil
}

func (f fakeNotices) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.notices, id)
	return nil
}

var (
	_ repository.IMemberRepository      = fakeMembers{}
	_ repository.IStudyGroupRepository  = fakeGroups{}
	_ repository.IParticipantRepository = fakeParticipants{}
	_ repository.IWaitingRepository     = fakeWaiting{}
	_ repository.INoticeRepository      = fakeNotices{}
)
