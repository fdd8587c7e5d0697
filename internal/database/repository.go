package database

import (
	"time"

	"github.com/phonewatch/phonewatch/internal/models"

	"github.com/pkg/errors"
)

// Repository handles all database operations for the error log
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreateErrorLog inserts a new error log entry
func (r *Repository) CreateErrorLog(entry *models.ErrorLog) error {
	result := r.db.Create(entry)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// GetRecentErrors retrieves the most recent error log entries, newest first
func (r *Repository) GetRecentErrors(limit int) ([]*models.ErrorLog, error) {
	var entries []*models.ErrorLog
	result := r.db.Order("timestamp DESC").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query error log")
	}
	return entries, nil
}

// DeleteOldErrors deletes entries older than a specified date (soft delete)
func (r *Repository) DeleteOldErrors(before time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", before).Delete(&models.ErrorLog{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old error logs")
	}
	return result.RowsAffected, nil
}

// Clear removes all error log entries
func (r *Repository) Clear() error {
	result := r.db.Exec("DELETE FROM error_logs")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear error logs")
	}
	return nil
}
