package repository

import (
	"context"

	"github.com/programamos-tech/zonat-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GarantiaRepository interface {
	Create(ctx context.Context, g *model.Garantia) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Garantia, error)
	List(ctx context.Context, estado string, page, limit int) ([]model.Garantia, int64, error)
	// UpdateEstadoTx resolves the claim only while it is still open.
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string, atendidaPor uuid.UUID, resolucion string) error
}

type garantiaRepo struct{ db *gorm.DB }

func NewGarantiaRepository(db *gorm.DB) GarantiaRepository { return &garantiaRepo{db: db} }

func (r *garantiaRepo) Create(ctx context.Context, g *model.Garantia) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *garantiaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Garantia, error) {
	var g model.Garantia
	err := r.db.WithContext(ctx).Preload("Producto").First(&g, id).Error
	return &g, err
}

func (r *garantiaRepo) List(ctx context.Context, estado string, page, limit int) ([]model.Garantia, int64, error) {
	var garantias []model.Garantia
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Garantia{})
	if estado != "" && estado != "all" {
		q = q.Where("estado = ?", estado)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Producto").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&garantias).Error
	return garantias, total, err
}

func (r *garantiaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string, atendidaPor uuid.UUID, resolucion string) error {
	res := tx.Model(&model.Garantia{}).
		Where("id = ? AND estado = ?", id, model.GarantiaAbierta).
		Updates(map[string]interface{}{
			"estado":       estado,
			"atendida_por": atendidaPor,
			"resolucion":   resolucion,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSinEfecto
	}
	return nil
}
