// internal/storage/postgres.go
package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Bets-Dmytro/Lab3-IoT/internal/data"
)

// PostgresStore implements Store on top of PostgreSQL via GORM.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore connects to the database and migrates the
// processed_agent_data table.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&data.StoredAgentData{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InsertBatch writes all records in one transaction and returns the rows
// with their generated ids, in input order.
func (s *PostgresStore) InsertBatch(ctx context.Context, records []data.ProcessedAgentData) ([]data.StoredAgentData, error) {
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]data.StoredAgentData, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.Row())
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}
	return rows, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*data.StoredAgentData, error) {
	var row data.StoredAgentData
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get record %d: %w", id, err)
	}
	return &row, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]data.StoredAgentData, error) {
	var rows []data.StoredAgentData
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return rows, nil
}

// Update replaces every data field of the row with the given id. The id
// itself never changes.
func (s *PostgresStore) Update(ctx context.Context, id int64, record data.ProcessedAgentData) (*data.StoredAgentData, error) {
	row := record.Row()
	row.ID = id

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing data.StoredAgentData
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.Save(&row).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update record %d: %w", id, err)
	}
	return &row, nil
}

// Delete removes the row with the given id and returns it.
func (s *PostgresStore) Delete(ctx context.Context, id int64) (*data.StoredAgentData, error) {
	var row data.StoredAgentData
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.Delete(&data.StoredAgentData{}, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete record %d: %w", id, err)
	}
	return &row, nil
}
