package model

import "time"

// Note - опубликованная или черновая заметка.
type Note struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	Title      string `gorm:"not null"`
	Slug       string `gorm:"uniqueIndex;not null"`
	Content    string `gorm:"type:text;not null"`
	Excerpt    string `gorm:"type:text"`
	CoverImage string
	Published  bool  `gorm:"not null;default:false;index"`
	LikeCount  int64 `gorm:"not null;default:0"`

	AuthorID string `gorm:"type:uuid;not null;index"`
	Author   *User  `gorm:"foreignKey:AuthorID"`

	CategoryID *string   `gorm:"type:uuid;index"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	Tags []Tag `gorm:"many2many:note_tags;"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Comment - комментарий к заметке; ParentID задаёт ответ на другой комментарий.
type Comment struct {
	ID       string  `gorm:"primaryKey;type:uuid"`
	NoteID   string  `gorm:"type:uuid;not null;index"`
	AuthorID string  `gorm:"type:uuid;not null;index"`
	ParentID *string `gorm:"type:uuid;index"`
	Content  string  `gorm:"type:text;not null"`

	Author *User `gorm:"foreignKey:AuthorID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Like - анонимный лайк; пара (NoteID, IPAddress) уникальна.
type Like struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	NoteID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_likes_note_ip"`
	IPAddress string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_likes_note_ip"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
