package repo

import (
	"Inkwell/internal/model"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// DefaultSQLitePath используется, если DATABASE_URI не задан.
const DefaultSQLitePath = "inkwell.db"

// newGormLogger пишет только предупреждения и ошибки; "record not found" - штатный
// исход Lookup и GetBy*, в лог он не попадает.
func newGormLogger(w io.Writer) logger.Interface {
	return logger.New(log.New(w, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// InitDB открывает БД по строке подключения и прогоняет миграции.
// postgres:// и DSN вида "host=..." уходят в Postgres, всё остальное считается путём SQLite.
func InitDB(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	sqlite := false
	switch {
	case isPostgresDSN(dsn):
		dial = postgres.Open(dsn)
	default:
		if dsn == "" {
			dsn = DefaultSQLitePath
		}
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
		sqlite = true
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         newGormLogger(os.Stdout),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if sqlite {
		// SQLite допускает одного писателя; одно соединение убирает SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate создаёт/обновляет схему для всех моделей.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Tag{},
		&model.Note{},
		&model.Comment{},
		&model.Like{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// Ping проверяет доступность БД (для /health).
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}
