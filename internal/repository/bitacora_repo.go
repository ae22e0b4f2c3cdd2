package repository

import (
	"context"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BitacoraRepository interface {
	Create(ctx context.Context, b *model.Bitacora) error
	List(ctx context.Context, filter dto.BitacoraFilter) ([]model.Bitacora, int64, error)
}

type bitacoraRepo struct{ db *gorm.DB }

func NewBitacoraRepository(db *gorm.DB) BitacoraRepository { return &bitacoraRepo{db: db} }

func (r *bitacoraRepo) Create(ctx context.Context, b *model.Bitacora) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bitacoraRepo) List(ctx context.Context, filter dto.BitacoraFilter) ([]model.Bitacora, int64, error) {
	var entradas []model.Bitacora
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Bitacora{})
	if filter.UsuarioID != "" {
		if id, err := uuid.Parse(filter.UsuarioID); err == nil {
			q = q.Where("usuario_id = ?", id)
		}
	}
	if filter.Modulo != "" {
		q = q.Where("modulo = ?", filter.Modulo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").
		Limit(filter.Limit).Offset((filter.Page - 1) * filter.Limit).
		Find(&entradas).Error
	return entradas, total, err
}
