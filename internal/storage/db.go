// ABOUTME: Opens the sqlite database through gorm and migrates the schema.
// ABOUTME: SQLStore implements the journal, embedding, and comment store interfaces.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/2389-research/revibe/internal/models"
)

// SQLStore persists revibe data in a single sqlite file.
type SQLStore struct {
	db *gorm.DB
}

var (
	_ JournalStore   = (*SQLStore)(nil)
	_ EmbeddingStore = (*SQLStore)(nil)
	_ CommentStore   = (*SQLStore)(nil)
)

// Open creates the parent directory, opens the database, and runs AutoMigrate.
func Open(path string) (*SQLStore, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_busy_timeout=5000"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Entry{},
		&models.Identification{},
		&models.Learning{},
		&models.Comment{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// DB exposes the underlying handle for tests and maintenance commands.
func (s *SQLStore) DB() *gorm.DB {
	return s.db
}

// Close releases the connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
