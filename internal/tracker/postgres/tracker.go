package postgres

import (
	"context"

	trackerDatamodel "github.com/airotrack/fieldops/internal/core/datamodel/tracker"
	"github.com/airotrack/fieldops/internal/tracker"
	"gorm.io/gorm"
)

// TrackerRepository persists stock units using GORM.
type TrackerRepository struct {
	db *gorm.DB
}

func NewTrackerRepository(db *gorm.DB) *TrackerRepository {
	return &TrackerRepository{db: db}
}

func (r *TrackerRepository) All(ctx context.Context) ([]*tracker.Tracker, error) {
	var rows []*trackerDatamodel.Tracker
	err := r.db.WithContext(ctx).Order("date DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return tracker.FromDataModelSlice(rows), nil
}

func (r *TrackerRepository) Insert(ctx context.Context, t *tracker.Tracker) error {
	return r.db.WithContext(ctx).Create(tracker.ToDataModel(t)).Error
}

func (r *TrackerRepository) Update(ctx context.Context, t *tracker.Tracker) error {
	return r.db.WithContext(ctx).Save(tracker.ToDataModel(t)).Error
}

func (r *TrackerRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&trackerDatamodel.Tracker{}, "id = ?", id).Error
}
