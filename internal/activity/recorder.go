package activity

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shopmaster/storefront/internal/events"
	"github.com/shopmaster/storefront/internal/logging"
	"github.com/shopmaster/storefront/internal/models"
)

const recordTimeout = 5 * time.Second

// Recorder appends user activity entries. Recording is strictly best-effort:
// a failed write or publish is logged and discarded, it never reaches the
// caller's error path.
type Recorder struct {
	DB       *gorm.DB
	Producer *events.Producer
}

// Record runs asynchronously so the calling request never blocks on the
// activity log.
func (r *Recorder) Record(ctx context.Context, userID uint, action, description string, metadata map[string]any) {
	ctx = context.WithoutCancel(ctx)
	go r.RecordNow(ctx, userID, action, description, metadata)
}

// RecordNow is the synchronous form, used directly in tests.
func (r *Recorder) RecordNow(ctx context.Context, userID uint, action, description string, metadata map[string]any) {
	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	l := logging.FromContext(ctx).With("component", "activity_recorder")

	entry := models.ActivityLog{
		UserID:      userID,
		Action:      action,
		Description: description,
	}
	if metadata != nil {
		entry.Metadata = datatypes.JSONMap(metadata)
	}

	if err := r.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		l.Error("activity_record_failed", "action", action, "user_id", userID, "error", err)
		return
	}

	event := map[string]any{
		"type":    "activity_recorded",
		"userID":  userID,
		"action":  action,
		"logID":   entry.ID,
		"details": metadata,
	}
	if err := r.Producer.PublishEvent(ctx, events.TopicUserEvents, fmt.Sprint(userID), event); err != nil {
		l.Error("activity_publish_failed", "action", action, "user_id", userID, "error", err)
	}
}

// Recent returns the newest entries for one user.
func (r *Recorder) Recent(ctx context.Context, userID uint, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 10
	}
	var entries []models.ActivityLog
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Feed returns the newest entries across all users with the acting user
// preloaded, for the admin back-office.
func (r *Recorder) Feed(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var entries []models.ActivityLog
	if err := r.DB.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
