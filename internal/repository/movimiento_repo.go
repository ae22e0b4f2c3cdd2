package repository

import (
	"context"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoStockRepository persists the stock audit trail. CreateTx runs in
// the same transaction as the counter mutation it documents.
type MovimientoStockRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoStock) error
	List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoStock, int64, error)
	ListPorReferencia(ctx context.Context, referenciaID uuid.UUID) ([]model.MovimientoStock, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoRepo{db: db}
}

func (r *movimientoRepo) CreateTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Create(m).Error
}

func (r *movimientoRepo) List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoStock, int64, error) {
	var movimientos []model.MovimientoStock
	var total int64

	q := r.db.WithContext(ctx).Model(&model.MovimientoStock{})
	if filter.ProductoID != "" {
		if id, err := uuid.Parse(filter.ProductoID); err == nil {
			q = q.Where("producto_id = ?", id)
		}
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").
		Limit(filter.Limit).Offset((filter.Page - 1) * filter.Limit).
		Find(&movimientos).Error
	return movimientos, total, err
}

func (r *movimientoRepo) ListPorReferencia(ctx context.Context, referenciaID uuid.UUID) ([]model.MovimientoStock, error) {
	var movimientos []model.MovimientoStock
	err := r.db.WithContext(ctx).
		Where("referencia_id = ?", referenciaID).
		Order("created_at ASC").
		Find(&movimientos).Error
	return movimientos, err
}
