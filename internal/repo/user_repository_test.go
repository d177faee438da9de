package repo

import (
	"Inkwell/internal/model"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)
	ctx := context.Background()

	// успешное создание
	u, err := r.CreateUser(ctx, &model.User{Email: "john@example.com", Name: "John"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	// значения по умолчанию из схемы
	got, err := r.GetUserByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, model.RoleVisitor, got.Role)
	assert.Equal(t, model.ProviderLocal, got.Provider)

	got, err = r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "John", got.Name)

	// уникальный email - вторая вставка даёт ErrDuplicate
	_, err = r.CreateUser(ctx, &model.User{Email: "john@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	// поиск несуществующего - ожидаем gorm.ErrRecordNotFound
	got, err = r.GetUserByEmail(ctx, "doesnotexist@example.com")
	assert.Nil(t, got)
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}

func TestUserRepository_UpdateUser(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "a@example.com", model.RoleVisitor)

	updated, err := r.UpdateUser(ctx, u.ID, map[string]any{"role": model.RoleOwner, "name": "Alice"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, updated.Role)
	assert.Equal(t, "Alice", updated.Name)

	_, err = r.UpdateUser(ctx, "missing", map[string]any{"name": "x"})
	assert.True(t, IsNotFound(err))
}

func TestUserRepository_ListUsers(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)
	for _, e := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		seedUser(t, db, e, model.RoleVisitor)
	}

	users, total, err := r.ListUsers(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 2)

	users, _, err = r.ListUsers(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGormLogger_SkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	db := newTestDB(t).Session(&gorm.Session{Logger: newGormLogger(&buf)})
	r := NewUserRepository(db)

	_, err := r.GetUserByID(context.Background(), "missing")
	require.True(t, IsNotFound(err))
	assert.Empty(t, buf.String())

	// настоящая ошибка по-прежнему логируется
	err = db.Exec("SELECT * FROM no_such_table").Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), "no_such_table")
}
