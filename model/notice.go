package model

import "time"

type Notice struct {
	ID        int       `json:"id"`
	GroupID   int       `json:"group_id"`
	AuthorID  int       `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewNotice(groupID, authorID int, title, content string, now time.Time) *Notice {
	return &Notice{
		GroupID:   groupID,
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (n *Notice) Edit(title, content string, now time.Time) {
	n.Title = title
	n.Content = content
	n.UpdatedAt = now
}
