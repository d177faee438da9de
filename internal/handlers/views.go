package handlers

import (
	"Inkwell/internal/model"
	"Inkwell/internal/service"
	"time"
)

// Представления ответа API. Модели gorm наружу не отдаются,
// в частности PasswordHash никогда не попадает в JSON.

type UserView struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      model.Role `json:"role"`
	Provider  string     `json:"provider"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func userView(u model.User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Provider:  u.Provider,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type AuthView struct {
	User  UserView `json:"user"`
	Token string   `json:"token"`
}

type AuthorView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func authorView(u *model.User) *AuthorView {
	if u == nil {
		return nil
	}
	return &AuthorView{ID: u.ID, Name: u.Name}
}

type CategoryView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func categoryView(c model.Category) CategoryView {
	return CategoryView{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Color:       c.Color,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type TagView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func tagView(t model.Tag) TagView {
	return TagView{ID: t.ID, Name: t.Name, Slug: t.Slug, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

// NoteView - заметка целиком; в списках Content опускается.
type NoteView struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Slug       string        `json:"slug"`
	Content    string        `json:"content,omitempty"`
	Excerpt    string        `json:"excerpt"`
	CoverImage string        `json:"coverImage"`
	Published  bool          `json:"published"`
	LikeCount  int64         `json:"likeCount"`
	AuthorID   string        `json:"authorId"`
	Author     *AuthorView   `json:"author,omitempty"`
	CategoryID *string       `json:"categoryId"`
	Category   *CategoryView `json:"category"`
	Tags       []TagView     `json:"tags"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func noteView(n model.Note, withContent bool) NoteView {
	v := NoteView{
		ID:         n.ID,
		Title:      n.Title,
		Slug:       n.Slug,
		Excerpt:    n.Excerpt,
		CoverImage: n.CoverImage,
		Published:  n.Published,
		LikeCount:  n.LikeCount,
		AuthorID:   n.AuthorID,
		Author:     authorView(n.Author),
		CategoryID: n.CategoryID,
		Tags:       make([]TagView, 0, len(n.Tags)),
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
	if withContent {
		v.Content = n.Content
	}
	if n.Category != nil {
		c := categoryView(*n.Category)
		v.Category = &c
	}
	for _, t := range n.Tags {
		v.Tags = append(v.Tags, tagView(t))
	}
	return v
}

func noteListView(n model.Note) NoteView {
	return noteView(n, false)
}

type CommentView struct {
	ID        string         `json:"id"`
	NoteID    string         `json:"noteId"`
	AuthorID  string         `json:"authorId"`
	Author    *AuthorView    `json:"author,omitempty"`
	ParentID  *string        `json:"parentId"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Replies   []*CommentView `json:"replies,omitempty"`
}

func commentView(c model.Comment) *CommentView {
	return &CommentView{
		ID:        c.ID,
		NoteID:    c.NoteID,
		AuthorID:  c.AuthorID,
		Author:    authorView(c.Author),
		ParentID:  c.ParentID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func commentTreeView(nodes []*service.CommentNode) []*CommentView {
	out := make([]*CommentView, 0, len(nodes))
	for _, n := range nodes {
		v := commentView(n.Comment)
		v.Replies = commentTreeView(n.Replies)
		out = append(out, v)
	}
	return out
}
