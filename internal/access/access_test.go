package access

import (
	"context"
	"errors"
	"testing"

	"Inkwell/internal/auth"
	"Inkwell/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func principal(id string, role model.Role) *auth.Principal {
	return &auth.Principal{SubjectID: id, Role: role}
}

func noteOf(authorID string) *ResourceState {
	return &ResourceState{Kind: NoteResource(nil), Found: true, AuthorID: authorID}
}

func TestDecide_Rules(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want Decision
	}{
		{
			name: "public ignores principal",
			req:  Request{Requirement: Public},
			want: Allow(),
		},
		{
			name: "no header",
			req:  Request{Requirement: Authenticated},
			want: Deny(model.CodeNoToken),
		},
		{
			name: "header but unverifiable",
			req:  Request{Requirement: Authenticated, HeaderPresent: true},
			want: Deny(model.CodeInvalidToken),
		},
		{
			name: "deleted user",
			req:  Request{Requirement: Authenticated, HeaderPresent: true, Principal: principal("u1", model.RoleVisitor)},
			want: Deny(model.CodeUserNotFound),
		},
		{
			name: "visitor on owner-only",
			req:  Request{Requirement: OwnerOnly, HeaderPresent: true, UserExists: true, Principal: principal("u1", model.RoleVisitor)},
			want: Deny(model.CodeForbidden),
		},
		{
			name: "owner on owner-only",
			req:  Request{Requirement: OwnerOnly, HeaderPresent: true, UserExists: true, Principal: principal("o1", model.RoleOwner)},
			want: Allow(),
		},
		{
			name: "visitor can comment",
			req:  Request{Requirement: Authenticated, HeaderPresent: true, UserExists: true, Principal: principal("u1", model.RoleVisitor)},
			want: Allow(),
		},
		{
			name: "missing resource",
			req: Request{
				Requirement: OwnershipOrOwner, HeaderPresent: true, UserExists: true,
				Principal: principal("u1", model.RoleVisitor),
				Resource:  &ResourceState{Kind: CommentResource(nil)},
			},
			want: Deny(model.CodeCommentNotFound),
		},
		{
			name: "deleted owner is not trusted",
			req:  Request{Requirement: OwnerOnly, HeaderPresent: true, UserExists: false, Principal: principal("o1", model.RoleOwner)},
			want: Deny(model.CodeUserNotFound),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.req))
		})
	}
}

func TestDecide_Ownership(t *testing.T) {
	mk := func(p *auth.Principal, r *ResourceState) Request {
		return Request{Requirement: OwnershipOrOwner, HeaderPresent: true, UserExists: true, Principal: p, Resource: r}
	}

	// автор может менять свой ресурс
	assert.Equal(t, Allow(), Decide(mk(principal("A", model.RoleVisitor), noteOf("A"))))
	// чужой посетитель - нет
	assert.Equal(t, Deny(model.CodeForbidden), Decide(mk(principal("B", model.RoleVisitor), noteOf("A"))))
	// OWNER может всё
	assert.Equal(t, Allow(), Decide(mk(principal("Z", model.RoleOwner), noteOf("A"))))
	// без описания ресурса решение - отказ
	assert.Equal(t, Deny(model.CodeForbidden), Decide(mk(principal("A", model.RoleVisitor), nil)))
}

func TestDecide_SelfRoleChange(t *testing.T) {
	req := Request{
		Requirement:   OwnerOnly,
		Action:        ActionChangeRole,
		HeaderPresent: true,
		UserExists:    true,
		Principal:     principal("o1", model.RoleOwner),
		TargetUserID:  "o1",
	}
	assert.Equal(t, Deny(model.CodeCannotChangeOwnRole), Decide(req))

	req.TargetUserID = "u2"
	assert.Equal(t, Allow(), Decide(req))

	// посетитель получает FORBIDDEN даже для себя
	req.Principal = principal("u2", model.RoleVisitor)
	assert.Equal(t, Deny(model.CodeForbidden), Decide(req))
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	kind := NoteResource(func(_ context.Context, id string) (string, error) {
		switch id {
		case "n1":
			return "A", nil
		case "boom":
			return "", errors.New("db down")
		}
		return "", ErrResourceNotFound
	})
	assert.Equal(t, "note", kind.Name())

	st, err := Resolve(ctx, kind, "n1")
	require.NoError(t, err)
	assert.True(t, st.Found)
	assert.Equal(t, "A", st.AuthorID)

	st, err = Resolve(ctx, kind, "missing")
	require.NoError(t, err)
	assert.False(t, st.Found)
	assert.Equal(t, model.CodeNoteNotFound, st.Kind.NotFoundCode())

	_, err = Resolve(ctx, kind, "boom")
	assert.Error(t, err)
}
