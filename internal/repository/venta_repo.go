package repository

import (
	"context"
	"time"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	// FindByTrasladoID resolves the internal invoice a traslado generated.
	FindByTrasladoID(ctx context.Context, trasladoID uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, tiendaID uuid.UUID, filter dto.VentaFilter) ([]model.Venta, int64, error)
	// ListCompletadasChunk pages through completed sales for report scans.
	ListCompletadasChunk(ctx context.Context, desde, hasta time.Time, offset, limit int) ([]model.Venta, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hacia string) error
	AsignarNumeroFacturaTx(tx *gorm.DB, id uuid.UUID, numero int) error
	// NextNumeroFacturaTx bumps the store's invoice sequence atomically and
	// returns the new value.
	NextNumeroFacturaTx(tx *gorm.DB, tiendaID uuid.UUID) (int, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Pagos").Preload("Cliente").
		First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	if err := tx.Raw("SELECT * FROM ventas WHERE id = ? FOR UPDATE", id).Scan(&v).Error; err != nil {
		return nil, err
	}
	if v.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	err := tx.Preload("Items").Preload("Pagos").First(&v, v.ID).Error
	return &v, err
}

func (r *ventaRepo) FindByTrasladoID(ctx context.Context, trasladoID uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Pagos").
		Where("traslado_id = ?", trasladoID).
		First(&v).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, tiendaID uuid.UUID, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{}).Where("tienda_id = ?", tiendaID)

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}

	fecha := filter.Fecha
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}
	dia, err := time.Parse("2006-01-02", fecha)
	if err == nil {
		q = q.Where("created_at >= ? AND created_at < ?", dia, dia.Add(24*time.Hour))
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err = q.Preload("Items").Preload("Pagos").
		Order("created_at DESC").
		Limit(filter.Limit).Offset((filter.Page - 1) * filter.Limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) ListCompletadasChunk(ctx context.Context, desde, hasta time.Time, offset, limit int) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("estado = ? AND created_at >= ? AND created_at < ?", model.VentaCompletada, desde, hasta).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&ventas).Error
	return ventas, err
}

// UpdateEstadoTx moves a venta between states only when it is still in the
// expected source state, so double anulaciones and races surface as ErrSinEfecto.
func (r *ventaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hacia string) error {
	res := tx.Model(&model.Venta{}).
		Where("id = ? AND estado = ?", id, desde).
		Update("estado", hacia)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSinEfecto
	}
	return nil
}

func (r *ventaRepo) AsignarNumeroFacturaTx(tx *gorm.DB, id uuid.UUID, numero int) error {
	return tx.Model(&model.Venta{}).Where("id = ?", id).Update("numero_factura", numero).Error
}

func (r *ventaRepo) NextNumeroFacturaTx(tx *gorm.DB, tiendaID uuid.UUID) (int, error) {
	var numero int
	err := tx.Raw(
		"UPDATE tiendas SET consecutivo_factura = consecutivo_factura + 1 WHERE id = ? RETURNING consecutivo_factura",
		tiendaID,
	).Scan(&numero).Error
	return numero, err
}

func (r *ventaRepo) DB() *gorm.DB { return r.db }
