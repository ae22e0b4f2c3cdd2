package repository

import (
	"context"

	"github.com/programamos-tech/zonat-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	// FindOrCreatePorTiendaTx resolves the cliente row that represents a
	// micro-tienda on the main store's books, creating it on first use.
	FindOrCreatePorTiendaTx(tx *gorm.DB, tiendaID uuid.UUID, nombre string) (*model.Cliente, error)
	List(ctx context.Context, buscar string, page, limit int) ([]model.Cliente, int64, error)
	Update(ctx context.Context, c *model.Cliente) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *clienteRepo) FindOrCreatePorTiendaTx(tx *gorm.DB, tiendaID uuid.UUID, nombre string) (*model.Cliente, error) {
	cliente := model.Cliente{
		Nombre:   nombre,
		TiendaID: &tiendaID,
		Activo:   true,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tienda_id"}},
		DoNothing: true,
	}).Create(&cliente).Error
	if err != nil {
		return nil, err
	}
	// DoNothing leaves cliente.ID zero when the row already existed.
	if cliente.ID == uuid.Nil {
		err = tx.Where("tienda_id = ?", tiendaID).First(&cliente).Error
	}
	return &cliente, err
}

func (r *clienteRepo) List(ctx context.Context, buscar string, page, limit int) ([]model.Cliente, int64, error) {
	var clientes []model.Cliente
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("activo = true")
	if buscar != "" {
		q = q.Where("nombre ILIKE ? OR documento = ?", "%"+buscar+"%", buscar)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("nombre ASC").Limit(limit).Offset((page - 1) * limit).Find(&clientes).Error
	return clientes, total, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).Update("activo", false).Error
}
