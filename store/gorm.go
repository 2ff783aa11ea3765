package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// AccessFlag is one persisted flag for one visitor.
type AccessFlag struct {
	VisitorID string    `gorm:"primaryKey;size:64"`
	Name      string    `gorm:"primaryKey;size:128"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (AccessFlag) TableName() string { return "access_flags" }

// Gorm keeps flags in a SQL table, keyed by visitor and flag name.
type Gorm struct {
	db *gorm.DB
}

// OpenPostgres connects to Postgres and migrates the flag table.
func OpenPostgres(dsn string) (*Gorm, error) {
	return openGorm(postgres.Open(dsn))
}

// OpenSQLite opens (or creates) a SQLite database file and migrates the flag table.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*Gorm, error) {
	return openGorm(sqlite.Open(path))
}

func openGorm(dialector gorm.Dialector) (*Gorm, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&AccessFlag{}); err != nil {
		return nil, fmt.Errorf("migrate access_flags: %w", err)
	}
	return &Gorm{db: db}, nil
}

// Close releases the underlying connection pool.
func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// For returns a store scoped to visitorID.
func (g *Gorm) For(visitorID string) Store {
	return &gormVisitor{db: g.db, visitorID: visitorID}
}

type gormVisitor struct {
	db        *gorm.DB
	visitorID string
}

func (s *gormVisitor) Read(ctx context.Context, key string) (string, bool, error) {
	var flag AccessFlag
	err := s.db.WithContext(ctx).
		Where("visitor_id = ? AND name = ?", s.visitorID, key).
		First(&flag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query flag: %w", err)
	}
	return flag.Value, true, nil
}

func (s *gormVisitor) Write(ctx context.Context, key, value string) error {
	flag := AccessFlag{VisitorID: s.visitorID, Name: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "visitor_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&flag).Error
	if err != nil {
		return fmt.Errorf("upsert flag: %w", err)
	}
	return nil
}

func (s *gormVisitor) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).
		Where("visitor_id = ? AND name = ?", s.visitorID, key).
		Delete(&AccessFlag{}).Error
	if err != nil {
		return fmt.Errorf("delete flag: %w", err)
	}
	return nil
}
