package postgres

import (
	"context"

	serviceDatamodel "github.com/airotrack/fieldops/internal/core/datamodel/service"
	"github.com/airotrack/fieldops/internal/service"
	"gorm.io/gorm"
)

// ServiceRepository persists field-service records using GORM.
type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) All(ctx context.Context) ([]*service.Service, error) {
	var rows []*serviceDatamodel.Service
	err := r.db.WithContext(ctx).Order("date DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return service.FromDataModelSlice(rows), nil
}

func (r *ServiceRepository) Insert(ctx context.Context, s *service.Service) error {
	return r.db.WithContext(ctx).Create(service.ToDataModel(s)).Error
}

func (r *ServiceRepository) Update(ctx context.Context, s *service.Service) error {
	return r.db.WithContext(ctx).Save(service.ToDataModel(s)).Error
}

func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&serviceDatamodel.Service{}, "id = ?", id).Error
}
