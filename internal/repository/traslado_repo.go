package repository

import (
	"context"
	"time"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrasladoRepository interface {
	CreateTx(tx *gorm.DB, t *model.Traslado) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Traslado, error)
	// FindByIDForUpdate locks the header row so receive and cancel cannot
	// interleave on the same traslado.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Traslado, error)
	List(ctx context.Context, filter dto.TrasladoFilter) ([]model.Traslado, int64, error)
	// UpdateEstadoTx is guarded on the current state (see VentaRepository).
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, desdeEstados []string, hacia string) error
	// AnularTx flips the estado to anulado and writes the cancellation note
	// in the same guarded update.
	AnularTx(tx *gorm.DB, id uuid.UUID, desdeEstados []string, notas *string) error
	MarcarRecibidoTx(tx *gorm.DB, id uuid.UUID, estado string, recibidoPor uuid.UUID) error
	UpdateItemRecibidoTx(tx *gorm.DB, itemID uuid.UUID, cantidadRecibida int) error
	DB() *gorm.DB
}

type trasladoRepo struct{ db *gorm.DB }

func NewTrasladoRepository(db *gorm.DB) TrasladoRepository { return &trasladoRepo{db: db} }

func (r *trasladoRepo) CreateTx(tx *gorm.DB, t *model.Traslado) error {
	return tx.Create(t).Error
}

func (r *trasladoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Traslado, error) {
	var t model.Traslado
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Origen").Preload("Destino").
		First(&t, id).Error
	return &t, err
}

func (r *trasladoRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Traslado, error) {
	var t model.Traslado
	if err := tx.Raw("SELECT * FROM traslados WHERE id = ? FOR UPDATE", id).Scan(&t).Error; err != nil {
		return nil, err
	}
	if t.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	err := tx.Preload("Items").First(&t, t.ID).Error
	return &t, err
}

func (r *trasladoRepo) List(ctx context.Context, filter dto.TrasladoFilter) ([]model.Traslado, int64, error) {
	var traslados []model.Traslado
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Traslado{})
	if filter.TiendaID != "" {
		if id, err := uuid.Parse(filter.TiendaID); err == nil {
			q = q.Where("origen_tienda_id = ? OR destino_tienda_id = ?", id, id)
		}
	}
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("created_at DESC").
		Limit(filter.Limit).Offset((filter.Page - 1) * filter.Limit).
		Find(&traslados).Error
	return traslados, total, err
}

func (r *trasladoRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, desdeEstados []string, hacia string) error {
	res := tx.Model(&model.Traslado{}).
		Where("id = ? AND estado IN ?", id, desdeEstados).
		Update("estado", hacia)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSinEfecto
	}
	return nil
}

func (r *trasladoRepo) AnularTx(tx *gorm.DB, id uuid.UUID, desdeEstados []string, notas *string) error {
	res := tx.Model(&model.Traslado{}).
		Where("id = ? AND estado IN ?", id, desdeEstados).
		Updates(map[string]interface{}{
			"estado": model.TrasladoAnulado,
			"notas":  notas,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSinEfecto
	}
	return nil
}

func (r *trasladoRepo) MarcarRecibidoTx(tx *gorm.DB, id uuid.UUID, estado string, recibidoPor uuid.UUID) error {
	ahora := time.Now()
	res := tx.Model(&model.Traslado{}).
		Where("id = ? AND estado IN ?", id, []string{model.TrasladoPendiente, model.TrasladoEnTransito}).
		Updates(map[string]interface{}{
			"estado":       estado,
			"recibido_por": recibidoPor,
			"recibido_at":  ahora,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSinEfecto
	}
	return nil
}

func (r *trasladoRepo) UpdateItemRecibidoTx(tx *gorm.DB, itemID uuid.UUID, cantidadRecibida int) error {
	return tx.Model(&model.TrasladoItem{}).
		Where("id = ?", itemID).
		Update("cantidad_recibida", cantidadRecibida).Error
}

func (r *trasladoRepo) DB() *gorm.DB { return r.db }
