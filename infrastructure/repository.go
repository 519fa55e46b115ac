package infrastructure

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"jd-generator/domain"
)

// JobDescriptionRepository is the only component that reads or writes the
// job_descriptions table. Every call runs on a session bound to ctx, and
// every mutation runs in its own transaction.
type JobDescriptionRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewJobDescriptionRepository(db *gorm.DB) *JobDescriptionRepository {
	return &JobDescriptionRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *JobDescriptionRepository) Create(ctx context.Context, title string, content domain.JobDescriptionContent, expiresAt *time.Time) (*domain.JobDescription, error) {
	blob, err := content.Marshal()
	if err != nil {
		return nil, &domain.StorageError{Op: "create", Err: err}
	}

	jd := &domain.JobDescription{
		JobTitle:    title,
		ContentJSON: string(blob),
		CreatedAt:   r.now().Truncate(time.Millisecond),
		ExpiresAt:   expiresAt,
		Status:      domain.StatusActive,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(jd).Error
	})
	if err != nil {
		return nil, &domain.StorageError{Op: "create", Err: err}
	}
	return jd, nil
}

// Get returns nil, nil when no row has the given id.
func (r *JobDescriptionRepository) Get(ctx context.Context, id uint) (*domain.JobDescription, error) {
	var jd domain.JobDescription
	err := r.db.WithContext(ctx).First(&jd, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get", Err: err}
	}
	return &jd, nil
}

// List returns the id/title projection in ascending id order.
func (r *JobDescriptionRepository) List(ctx context.Context, offset, limit int) ([]domain.JobDescriptionSummary, error) {
	out := []domain.JobDescriptionSummary{}
	err := r.db.WithContext(ctx).
		Model(&domain.JobDescription{}).
		Select("id", "job_title").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, &domain.StorageError{Op: "list", Err: err}
	}
	return out, nil
}

// Update applies the non-nil fields of req and returns the refreshed row,
// or nil, nil when the row does not exist.
func (r *JobDescriptionRepository) Update(ctx context.Context, id uint, req domain.UpdateRequest) (*domain.JobDescription, error) {
	var jd domain.JobDescription
	found := true

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&jd, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				found = false
				return nil
			}
			return err
		}

		updates := map[string]interface{}{}
		if req.JobTitle != nil {
			updates["job_title"] = *req.JobTitle
		}
		if req.JDContent != nil {
			blob, err := req.JDContent.Marshal()
			if err != nil {
				return err
			}
			updates["jd_content_json"] = string(blob)
		}
		if req.ExpiresAt != nil {
			updates["expires_at"] = req.ExpiresAt.Time
		}
		if req.Status != nil {
			updates["status"] = *req.Status
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&jd).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&jd, id).Error
	})
	if err != nil {
		return nil, &domain.StorageError{Op: "update", Err: err}
	}
	if !found {
		return nil, nil
	}
	return &jd, nil
}

// Delete removes the row and reports whether it existed.
func (r *JobDescriptionRepository) Delete(ctx context.Context, id uint) (bool, error) {
	found := true

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var jd domain.JobDescription
		if err := tx.First(&jd, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				found = false
				return nil
			}
			return err
		}
		return tx.Delete(&jd).Error
	})
	if err != nil {
		return false, &domain.StorageError{Op: "delete", Err: err}
	}
	return found, nil
}

// Ping checks that the pool can still reach storage.
func (r *JobDescriptionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return &domain.StorageError{Op: "ping", Err: err}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return &domain.StorageError{Op: "ping", Err: err}
	}
	return nil
}
