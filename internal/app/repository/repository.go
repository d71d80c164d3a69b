package repository

import (
	"context"
	"errors"
	"fmt"

	"finishline/internal/app/ds"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict means a conditional write matched no row.
	ErrConflict = errors.New("record was modified concurrently")
)

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	return &Repository{
		db: db,
	}, nil
}

// NewWithDB wraps an already opened connection.
func NewWithDB(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates every table the application uses.
func (r *Repository) Migrate() error {
	err := r.db.AutoMigrate(
		&ds.User{},
		&ds.Team{},
		&ds.WBSElement{},
		&ds.Project{},
		&ds.WorkPackage{},
		&ds.DescriptionBullet{},
		&ds.ChangeRequest{},
		&ds.ActivationCR{},
		&ds.StageGateCR{},
		&ds.ScopeCR{},
		&ds.ScopeCRWhy{},
		&ds.ProposedSolution{},
		&ds.Change{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Transaction runs fn against a repository bound to a single transaction.
// The transaction is rolled back when fn returns an error.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
