package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"crewlog-service/internal/domain/entity"
	"crewlog-service/internal/domain/repository"
)

// GormUploadRepository implements the UploadRepository interface
type GormUploadRepository struct {
	db *gorm.DB
}

// NewGormUploadRepository creates a new GORM upload repository
func NewGormUploadRepository(db *gorm.DB) repository.UploadRepository {
	return &GormUploadRepository{db: db}
}

// RosterUploads GORM model for database mapping
type RosterUploads struct {
	ID           string  `gorm:"column:id;primaryKey"`
	UserID       string  `gorm:"column:user_id;index"`
	FileName     string  `gorm:"column:file_name"`
	FileKind     string  `gorm:"column:file_kind;type:varchar(8)"`
	Status       string  `gorm:"column:status;type:varchar(16)"`
	Month        int     `gorm:"column:month"`
	Year         int     `gorm:"column:year"`
	ErrorMessage *string `gorm:"column:error_message"`
	RawResponse  *string `gorm:"column:raw_response;type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides the default table name
func (RosterUploads) TableName() string {
	return "roster_uploads"
}

// Create inserts a new upload row; the caller sets an initial processing status.
func (r *GormUploadRepository) Create(ctx context.Context, upload *entity.RosterUpload) error {
	row := RosterUploads{
		ID:           upload.ID,
		UserID:       upload.UserID,
		FileName:     upload.FileName,
		FileKind:     upload.FileKind,
		Status:       upload.Status,
		Month:        upload.Month,
		Year:         upload.Year,
		ErrorMessage: upload.ErrorMessage,
		RawResponse:  upload.RawResponse,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	upload.CreatedAt = row.CreatedAt
	upload.UpdatedAt = row.UpdatedAt
	return nil
}

// GetByID finds an upload by id, scoped to its owning user.
func (r *GormUploadRepository) GetByID(ctx context.Context, userID, uploadID string) (*entity.RosterUpload, error) {
	var row RosterUploads
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", uploadID, userID).First(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	return toUpload(&row), nil
}

// MarkCompleted transitions processing -> completed. The status guard in the
// WHERE clause makes terminal states immutable at the store.
func (r *GormUploadRepository) MarkCompleted(ctx context.Context, uploadID string, month, year int, rawResponse string) error {
	result := r.db.WithContext(ctx).Model(&RosterUploads{}).
		Where("id = ? AND status = ?", uploadID, entity.UploadStatusProcessing).
		Updates(map[string]interface{}{
			"status":       entity.UploadStatusCompleted,
			"month":        month,
			"year":         year,
			"raw_response": rawResponse,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("upload %s is not in %s state", uploadID, entity.UploadStatusProcessing)
	}
	return nil
}

// MarkFailed transitions processing -> failed, retaining the error message and
// any raw model text for diagnosis.
func (r *GormUploadRepository) MarkFailed(ctx context.Context, uploadID string, message string, rawText *string) error {
	updates := map[string]interface{}{
		"status":        entity.UploadStatusFailed,
		"error_message": message,
	}
	if rawText != nil {
		updates["raw_response"] = *rawText
	}
	result := r.db.WithContext(ctx).Model(&RosterUploads{}).
		Where("id = ? AND status = ?", uploadID, entity.UploadStatusProcessing).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("upload %s is not in %s state", uploadID, entity.UploadStatusProcessing)
	}
	return nil
}

func toUpload(row *RosterUploads) *entity.RosterUpload {
	return &entity.RosterUpload{
		ID:           row.ID,
		UserID:       row.UserID,
		FileName:     row.FileName,
		FileKind:     row.FileKind,
		Status:       row.Status,
		Month:        row.Month,
		Year:         row.Year,
		ErrorMessage: row.ErrorMessage,
		RawResponse:  row.RawResponse,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
