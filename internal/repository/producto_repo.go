package repository

import (
	"context"
	"errors"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSinEfecto is returned by guarded conditional updates when the WHERE
// clause matched no row: either the row is gone or the guard (stock
// sufficiency) failed. Services translate it into the proper domain error.
var ErrSinEfecto = errors.New("la actualizacion condicional no afecto ninguna fila")

// ProductoRepository defines the data access contract for the main-store
// catalog and its two stock counters. Services depend on this interface, not
// on the concrete GORM implementation, enabling unit testing via stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByReferencia(ctx context.Context, referencia string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	ListBajoMinimo(ctx context.Context) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	// Eliminar removes the row physically; refuses unless total stock is zero.
	Eliminar(ctx context.Context, id uuid.UUID) error

	// Tx-scoped ledger primitives. Callers must pass the tx instance.
	// FindByIDForUpdate takes a row lock so the split computation and the
	// subsequent counter update cannot race a concurrent deduction.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	// AjustarContadoresTx applies signed deltas to both counters in one
	// guarded UPDATE; returns ErrSinEfecto when a counter would go negative.
	AjustarContadoresTx(tx *gorm.DB, id uuid.UUID, deltaBodega, deltaLocal int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productoRepo) FindByReferencia(ctx context.Context, referencia string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("referencia = ? AND activo = true", referencia).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	// Activo filter: "false" = inactivos, "all" = todos, default activos
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}

	if filter.Referencia != "" {
		q = q.Where("referencia = ?", filter.Referencia)
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Marca != "" {
		q = q.Where("marca = ?", filter.Marca)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListBajoMinimo(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("activo = true AND stock_bodega + stock_local <= stock_minimo").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *productoRepo) Eliminar(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND stock_bodega = 0 AND stock_local = 0", id).
		Delete(&model.Producto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSinEfecto
	}
	return nil
}

func (r *productoRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	return &p, err
}

func (r *productoRepo) AjustarContadoresTx(tx *gorm.DB, id uuid.UUID, deltaBodega, deltaLocal int) error {
	res := tx.Model(&model.Producto{}).
		Where("id = ? AND stock_bodega + ? >= 0 AND stock_local + ? >= 0", id, deltaBodega, deltaLocal).
		Updates(map[string]interface{}{
			"stock_bodega": gorm.Expr("stock_bodega + ?", deltaBodega),
			"stock_local":  gorm.Expr("stock_local + ?", deltaLocal),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSinEfecto
	}
	return nil
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
