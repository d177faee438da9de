package repo

import (
	"Inkwell/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	r := NewCommentRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", model.RoleOwner)
	visitor := seedUser(t, db, "v@example.com", model.RoleVisitor)
	n := seedNote(t, db, owner, "a", true, nil)

	c, err := r.Create(ctx, &model.Comment{NoteID: n.ID, AuthorID: visitor.ID, Content: "first"})
	require.NoError(t, err)
	require.NotNil(t, c.Author)
	assert.Equal(t, visitor.ID, c.Author.ID)

	author, err := r.AuthorOf(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, visitor.ID, author)

	updated, err := r.UpdateContent(ctx, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = r.UpdateContent(ctx, "missing", "x")
	assert.True(t, IsNotFound(err))

	_, err = r.AuthorOf(ctx, "missing")
	assert.True(t, IsNotFound(err))
}

func TestCommentRepository_DeleteRemovesReplies(t *testing.T) {
	db := newTestDB(t)
	r := NewCommentRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", model.RoleOwner)
	n := seedNote(t, db, owner, "a", true, nil)

	root, err := r.Create(ctx, &model.Comment{NoteID: n.ID, AuthorID: owner.ID, Content: "root"})
	require.NoError(t, err)
	reply, err := r.Create(ctx, &model.Comment{NoteID: n.ID, AuthorID: owner.ID, Content: "reply", ParentID: &root.ID})
	require.NoError(t, err)
	_, err = r.Create(ctx, &model.Comment{NoteID: n.ID, AuthorID: owner.ID, Content: "nested", ParentID: &reply.ID})
	require.NoError(t, err)
	sibling, err := r.Create(ctx, &model.Comment{NoteID: n.ID, AuthorID: owner.ID, Content: "sibling"})
	require.NoError(t, err)

	deleted, err := r.Delete(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	left, err := r.ListByNote(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, sibling.ID, left[0].ID)

	_, err = r.Delete(ctx, root.ID)
	assert.True(t, IsNotFound(err))
}
