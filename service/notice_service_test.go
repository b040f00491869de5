package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studygroup-api/model"
)

func TestNoticeService(t *testing.T) {
	f := newMembershipFixture(t, defaultRules())
	ctx := context.Background()
	alice := f.dir.addMember("alice@example.com")
	bob := f.dir.addMember("bob@example.com")
	outsider := f.dir.addMember("carol@example.com")
	g := f.createGroup(t, alice, "A")
	f.join(t, alice, bob, g.ID, "B")

	notices := NewNoticeService(nil, fakeNotices{f.dir}, fakeGroups{f.dir}, fakeParticipants{f.dir})
	posted := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	notices.now = func() time.Time { return posted }

	_, err := notices.Create(ctx, bob, g.ID, model.NoticeRequest{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrPermissionDenied, "members cannot post notices")

	n, err := notices.Create(ctx, alice, g.ID, model.NoticeRequest{Title: "Kickoff", Content: "Room 3, 7pm"})
	require.NoError(t, err)
	assert.Equal(t, alice, n.AuthorID)
	assert.Equal(t, posted, n.CreatedAt)

	list, err := notices.List(ctx, bob, g.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = notices.List(ctx, outsider, g.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	edited := posted.Add(time.Hour)
	notices.now = func() time.Time { return edited }
	n, err = notices.Update(ctx, alice, g.ID, n.ID, model.NoticeRequest{Title: "Kickoff", Content: "Room 4, 7pm"})
	require.NoError(t, err)
	assert.Equal(t, edited, n.UpdatedAt)

	got, err := notices.Get(ctx, bob, g.ID, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Room 4, 7pm", got.Content)

	assert.ErrorIs(t, notices.Delete(ctx, bob, g.ID, n.ID), ErrPermissionDenied)
	require.NoError(t, notices.Delete(ctx, alice, g.ID, n.ID))

	_, err = notices.Get(ctx, bob, g.ID, n.ID)
	assert.ErrorIs(t, err, ErrNoticeNotFound)
	_, err = notices.Update(ctx, alice, g.ID, n.ID, model.NoticeRequest{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrNoticeNotFound)

	_, err = notices.List(ctx, alice, 9999)
	assert.ErrorIs(t, err, ErrStudyGroupNotFound)
}
