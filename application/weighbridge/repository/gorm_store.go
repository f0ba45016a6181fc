package repository

import (
	"context"
	"errors"
	"fmt"
	"weighbridge/application/weighbridge/domain"
	"weighbridge/common"

	"gorm.io/gorm"
)

// GormStore persists tickets through gorm (sqlite or mysql)
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store over an open, migrated connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the tickets table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&common.Ticket{}); err != nil {
		return fmt.Errorf("failed to migrate tickets table: %w", err)
	}
	return nil
}

// ListAll returns every ticket, newest id first
func (s *GormStore) ListAll(ctx context.Context) ([]common.Ticket, error) {
	var records []common.Ticket
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return records, nil
}

// FindByID looks a ticket up by primary key
func (s *GormStore) FindByID(ctx context.Context, id int64) (common.Ticket, error) {
	var record common.Ticket
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.Ticket{}, domain.ErrTicketNotFound
	}
	if err != nil {
		return common.Ticket{}, fmt.Errorf("failed to find ticket %d: %w", id, err)
	}
	return record, nil
}

// Insert stores a new ticket; the database assigns the id
func (s *GormStore) Insert(ctx context.Context, record common.Ticket) (common.Ticket, error) {
	record.ID = 0
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return common.Ticket{}, fmt.Errorf("failed to insert ticket: %w", err)
	}
	return record, nil
}

// Update overwrites every column of an existing ticket. The existence check and
// the write share one transaction so a missing id never produces a row.
func (s *GormStore) Update(ctx context.Context, record common.Ticket) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing common.Ticket
		err := tx.Select("id").Where("id = ?", record.ID).Take(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTicketNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check ticket %d: %w", record.ID, err)
		}

		// a map keeps zero values (empty names, zero weights) in the UPDATE
		err = tx.Model(&common.Ticket{}).
			Where("id = ?", record.ID).
			Updates(map[string]interface{}{
				"timestamp":      record.Timestamp,
				"license_number": record.LicenseNumber,
				"driver_name":    record.DriverName,
				"in_weight":      record.InWeight,
				"out_weight":     record.OutWeight,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update ticket %d: %w", record.ID, err)
		}
		return nil
	})
}

// Ping checks the underlying connection
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
