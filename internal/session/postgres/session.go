package postgres

import (
	"context"
	"errors"
	"time"

	sessionDatamodel "github.com/airotrack/fieldops/internal/core/datamodel/session"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionStore implements session.Store on the app_sessions table.
type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Put(ctx context.Context, scope, key string, value []byte) error {
	entry := &sessionDatamodel.Entry{
		Scope:     scope,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(entry).Error
}

func (s *SessionStore) Get(ctx context.Context, scope, key string) ([]byte, error) {
	var entry sessionDatamodel.Entry
	err := s.db.WithContext(ctx).
		Where("scope = ? AND key = ?", scope, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

func (s *SessionStore) Delete(ctx context.Context, scope, key string) error {
	return s.db.WithContext(ctx).
		Where("scope = ? AND key = ?", scope, key).
		Delete(&sessionDatamodel.Entry{}).Error
}
