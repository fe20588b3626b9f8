package postgres

import (
	"context"

	reimbursementDatamodel "github.com/airotrack/fieldops/internal/core/datamodel/reimbursement"
	"github.com/airotrack/fieldops/internal/reimbursement"
	"gorm.io/gorm"
)

// ReimbursementRepository persists expense claims using GORM.
type ReimbursementRepository struct {
	db *gorm.DB
}

func NewReimbursementRepository(db *gorm.DB) *ReimbursementRepository {
	return &ReimbursementRepository{db: db}
}

func (r *ReimbursementRepository) All(ctx context.Context) ([]*reimbursement.Reimbursement, error) {
	var rows []*reimbursementDatamodel.Reimbursement
	err := r.db.WithContext(ctx).Order("date DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return reimbursement.FromDataModelSlice(rows), nil
}

func (r *ReimbursementRepository) Insert(ctx context.Context, claim *reimbursement.Reimbursement) error {
	return r.db.WithContext(ctx).Create(reimbursement.ToDataModel(claim)).Error
}

func (r *ReimbursementRepository) Update(ctx context.Context, claim *reimbursement.Reimbursement) error {
	return r.db.WithContext(ctx).Save(reimbursement.ToDataModel(claim)).Error
}

func (r *ReimbursementRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&reimbursementDatamodel.Reimbursement{}, "id = ?", id).Error
}
