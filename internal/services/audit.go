package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/diewo77/go-commandes/internal/events"
	"github.com/diewo77/go-commandes/internal/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// AuditService stores mutations in the audit table and publishes them.
// Both sinks are best effort: a failure is logged, never surfaced to the user.
type AuditService struct {
	db  *gorm.DB
	pub events.Publisher
	log zerolog.Logger
}

func NewAuditService(db *gorm.DB, pub events.Publisher, log zerolog.Logger) *AuditService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &AuditService{db: db, pub: pub, log: log}
}

// Record persists and publishes one entry.
func (s *AuditService) Record(ctx context.Context, entry models.AuditLog) {
	if s == nil {
		return
	}
	if s.db != nil {
		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			s.log.Error().Err(err).Str("entity", entry.EntityType).Int64("id", entry.EntityID).Msg("audit insert failed")
		}
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return
	}
	key := fmt.Sprintf("%s:%d", entry.EntityType, entry.EntityID)
	if err := s.pub.Publish(ctx, key, payload); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("audit publish failed")
	}
}

// Recent returns the latest entries, newest first.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []models.AuditLog
	err := s.db.WithContext(ctx).Order("created_at desc, id desc").Limit(limit).Find(&out).Error
	return out, err
}

// ForEntity returns the history of one record, newest first.
func (s *AuditService) ForEntity(ctx context.Context, entityType string, id int64) ([]models.AuditLog, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var out []models.AuditLog
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, id).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}
