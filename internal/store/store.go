package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrRunNotFound = errors.New("build run not found")

// Store is the sqlite ledger of pre-render runs and queued rebuilds.
type Store struct {
	db *gorm.DB
}

func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create store dir")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open store %s", path)
	}

	if err := db.AutoMigrate(&BuildRun{}, &PageRecord{}, &BuildTask{}); err != nil {
		return nil, errors.Wrap(err, "migrate store")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func now() time.Time {
	return time.Now().UTC()
}
