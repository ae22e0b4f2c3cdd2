package repository

import (
	"context"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreditoRepository interface {
	CreateTx(tx *gorm.DB, c *model.Credito) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Credito, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Credito, error)
	FindByVentaID(ctx context.Context, ventaID uuid.UUID) (*model.Credito, error)
	FindByVentaIDTx(tx *gorm.DB, ventaID uuid.UUID) (*model.Credito, error)
	List(ctx context.Context, filter dto.CreditoFilter) ([]model.Credito, int64, error)
	CreateAbonoTx(tx *gorm.DB, a *model.Abono) error
	// AplicarAbonoTx moves monto from pendiente to pagado in one guarded
	// UPDATE; fails with ErrSinEfecto when the balance is too small.
	AplicarAbonoTx(tx *gorm.DB, creditoID uuid.UUID, monto decimal.Decimal, nuevoEstado string) error
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	AnularAbonosTx(tx *gorm.DB, creditoID uuid.UUID) error
	DB() *gorm.DB
}

type creditoRepo struct{ db *gorm.DB }

func NewCreditoRepository(db *gorm.DB) CreditoRepository { return &creditoRepo{db: db} }

func (r *creditoRepo) CreateTx(tx *gorm.DB, c *model.Credito) error {
	return tx.Create(c).Error
}

func (r *creditoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Credito, error) {
	var c model.Credito
	err := r.db.WithContext(ctx).
		Preload("Abonos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Cliente").
		First(&c, id).Error
	return &c, err
}

func (r *creditoRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Credito, error) {
	var c model.Credito
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error
	return &c, err
}

func (r *creditoRepo) FindByVentaID(ctx context.Context, ventaID uuid.UUID) (*model.Credito, error) {
	var c model.Credito
	err := r.db.WithContext(ctx).Preload("Abonos").Where("venta_id = ?", ventaID).First(&c).Error
	return &c, err
}

func (r *creditoRepo) FindByVentaIDTx(tx *gorm.DB, ventaID uuid.UUID) (*model.Credito, error) {
	var c model.Credito
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("venta_id = ?", ventaID).First(&c).Error
	return &c, err
}

func (r *creditoRepo) List(ctx context.Context, filter dto.CreditoFilter) ([]model.Credito, int64, error) {
	var creditos []model.Credito
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Credito{})
	if filter.ClienteID != "" {
		if id, err := uuid.Parse(filter.ClienteID); err == nil {
			q = q.Where("cliente_id = ?", id)
		}
	}
	switch filter.Estado {
	case "", "activos":
		q = q.Where("estado IN ?", []string{model.CreditoPendiente, model.CreditoParcial})
	case "all":
		// no filter
	default:
		q = q.Where("estado = ?", filter.Estado)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Abonos").Preload("Cliente").
		Order("created_at DESC").
		Limit(filter.Limit).Offset((filter.Page - 1) * filter.Limit).
		Find(&creditos).Error
	return creditos, total, err
}

func (r *creditoRepo) CreateAbonoTx(tx *gorm.DB, a *model.Abono) error {
	return tx.Create(a).Error
}

func (r *creditoRepo) AplicarAbonoTx(tx *gorm.DB, creditoID uuid.UUID, monto decimal.Decimal, nuevoEstado string) error {
	res := tx.Model(&model.Credito{}).
		Where("id = ? AND monto_pendiente >= ?", creditoID, monto).
		Updates(map[string]interface{}{
			"monto_pagado":    gorm.Expr("monto_pagado + ?", monto),
			"monto_pendiente": gorm.Expr("monto_pendiente - ?", monto),
			"estado":          nuevoEstado,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSinEfecto
	}
	return nil
}

func (r *creditoRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Credito{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *creditoRepo) AnularAbonosTx(tx *gorm.DB, creditoID uuid.UUID) error {
	return tx.Model(&model.Abono{}).
		Where("credito_id = ? AND anulado = false", creditoID).
		Update("anulado", true).Error
}

func (r *creditoRepo) DB() *gorm.DB { return r.db }
