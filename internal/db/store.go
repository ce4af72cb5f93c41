package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/essenciabjj/trial/internal/models"
)

// Store keeps registrations in a database reached through gorm.
type Store struct {
	conn *gorm.DB
}

func NewStore(conn *gorm.DB) *Store {
	return &Store{conn: conn}
}

func (s *Store) Insert(ctx context.Context, reg *models.Registration) error {
	if err := s.conn.WithContext(ctx).Create(reg).Error; err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]models.Registration, error) {
	var regs []models.Registration
	if err := s.conn.WithContext(ctx).
		Order("created_at desc").
		Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
