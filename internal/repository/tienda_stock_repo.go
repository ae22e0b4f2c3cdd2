package repository

import (
	"context"

	"github.com/programamos-tech/zonat-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TiendaStockRepository manages the per-micro-store quantity rows. All
// mutations are single-statement conditional updates or upserts so two
// concurrent receptions or sales never lose a delta.
type TiendaStockRepository interface {
	Find(ctx context.Context, tiendaID, productoID uuid.UUID) (*model.TiendaStock, error)
	ListarPorTienda(ctx context.Context, tiendaID uuid.UUID, page, limit int) ([]model.TiendaStock, int64, error)
	ListarPorProducto(ctx context.Context, productoID uuid.UUID) ([]model.TiendaStock, error)

	FindTx(tx *gorm.DB, tiendaID, productoID uuid.UUID) (*model.TiendaStock, error)
	// IncrementarTx upserts the row adding delta. On first insert the cost is
	// snapshotted from the transfer's unit price and the sale price starts at
	// zero until the store owner sets it; on conflict only cantidad moves.
	IncrementarTx(tx *gorm.DB, tiendaID, productoID uuid.UUID, delta int, costoInicial decimal.Decimal) error
	// DescontarTx decrements cantidad only if the row holds enough units.
	DescontarTx(tx *gorm.DB, tiendaID, productoID uuid.UUID, cantidad int) error
	ActualizarPrecioTx(tx *gorm.DB, tiendaID, productoID uuid.UUID, costo, precio *decimal.Decimal) error

	DB() *gorm.DB
}

type tiendaStockRepo struct{ db *gorm.DB }

func NewTiendaStockRepository(db *gorm.DB) TiendaStockRepository { return &tiendaStockRepo{db: db} }

func (r *tiendaStockRepo) Find(ctx context.Context, tiendaID, productoID uuid.UUID) (*model.TiendaStock, error) {
	var ts model.TiendaStock
	err := r.db.WithContext(ctx).
		Where("tienda_id = ? AND producto_id = ?", tiendaID, productoID).
		First(&ts).Error
	return &ts, err
}

func (r *tiendaStockRepo) ListarPorTienda(ctx context.Context, tiendaID uuid.UUID, page, limit int) ([]model.TiendaStock, int64, error) {
	var filas []model.TiendaStock
	var total int64

	q := r.db.WithContext(ctx).Model(&model.TiendaStock{}).Where("tienda_id = ?", tiendaID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Producto").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&filas).Error
	return filas, total, err
}

func (r *tiendaStockRepo) ListarPorProducto(ctx context.Context, productoID uuid.UUID) ([]model.TiendaStock, error) {
	var filas []model.TiendaStock
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND cantidad > 0", productoID).
		Find(&filas).Error
	return filas, err
}

func (r *tiendaStockRepo) FindTx(tx *gorm.DB, tiendaID, productoID uuid.UUID) (*model.TiendaStock, error) {
	var ts model.TiendaStock
	err := tx.Where("tienda_id = ? AND producto_id = ?", tiendaID, productoID).First(&ts).Error
	return &ts, err
}

func (r *tiendaStockRepo) IncrementarTx(tx *gorm.DB, tiendaID, productoID uuid.UUID, delta int, costoInicial decimal.Decimal) error {
	precioCero := decimal.Zero
	fila := model.TiendaStock{
		TiendaID:   tiendaID,
		ProductoID: productoID,
		Cantidad:   delta,
		Costo:      &costoInicial,
		Precio:     &precioCero,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tienda_id"}, {Name: "producto_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"cantidad": gorm.Expr("tienda_stocks.cantidad + ?", delta)}),
	}).Create(&fila).Error
}

func (r *tiendaStockRepo) DescontarTx(tx *gorm.DB, tiendaID, productoID uuid.UUID, cantidad int) error {
	res := tx.Model(&model.TiendaStock{}).
		Where("tienda_id = ? AND producto_id = ? AND cantidad >= ?", tiendaID, productoID, cantidad).
		Update("cantidad", gorm.Expr("cantidad - ?", cantidad))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSinEfecto
	}
	return nil
}

func (r *tiendaStockRepo) ActualizarPrecioTx(tx *gorm.DB, tiendaID, productoID uuid.UUID, costo, precio *decimal.Decimal) error {
	valores := map[string]interface{}{}
	if costo != nil {
		valores["costo"] = *costo
	}
	if precio != nil {
		valores["precio"] = *precio
	}
	if len(valores) == 0 {
		return nil
	}
	res := tx.Model(&model.TiendaStock{}).
		Where("tienda_id = ? AND producto_id = ?", tiendaID, productoID).
		Updates(valores)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSinEfecto
	}
	return nil
}

func (r *tiendaStockRepo) DB() *gorm.DB { return r.db }
