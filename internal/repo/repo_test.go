package repo

import (
	"Inkwell/internal/model"
	"context"
	"testing"

	"github.com/google/uuid"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует in-memory SQLite (modernc.org/sqlite) для тестов репозитория.
// У каждого теста своя база: имя уникально, cache=shared держит её живой между запросами пула.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

// seedUser создаёт пользователя с указанной ролью.
func seedUser(t *testing.T, db *gorm.DB, email string, role model.Role) *model.User {
	t.Helper()
	u, err := NewUserRepository(db).CreateUser(context.Background(), &model.User{Email: email, Name: email, Role: role})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedNote создаёт заметку автора с метками.
func seedNote(t *testing.T, db *gorm.DB, author *model.User, title string, published bool, categoryID *string, tagIDs ...string) *model.Note {
	t.Helper()
	n, err := NewNoteRepository(db).Create(context.Background(), &model.Note{
		Title:      title,
		Slug:       uuid.NewString(),
		Content:    "content of " + title,
		Excerpt:    "excerpt of " + title,
		Published:  published,
		AuthorID:   author.ID,
		CategoryID: categoryID,
	}, tagIDs)
	if err != nil {
		t.Fatalf("seed note: %v", err)
	}
	return n
}

func seedTag(t *testing.T, db *gorm.DB, name string) *model.Tag {
	t.Helper()
	tag, err := NewTagRepository(db).Create(context.Background(), &model.Tag{Name: name, Slug: name})
	if err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	return tag
}
