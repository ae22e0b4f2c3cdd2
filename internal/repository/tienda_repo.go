package repository

import (
	"context"

	"github.com/programamos-tech/zonat-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TiendaRepository interface {
	Create(ctx context.Context, t *model.Tienda) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tienda, error)
	// FindPrincipal returns the single tienda principal. The seed guarantees
	// exactly one exists.
	FindPrincipal(ctx context.Context) (*model.Tienda, error)
	List(ctx context.Context, soloActivas bool) ([]model.Tienda, error)
	Update(ctx context.Context, t *model.Tienda) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type tiendaRepo struct{ db *gorm.DB }

func NewTiendaRepository(db *gorm.DB) TiendaRepository { return &tiendaRepo{db: db} }

func (r *tiendaRepo) Create(ctx context.Context, t *model.Tienda) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tiendaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Tienda, error) {
	var t model.Tienda
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *tiendaRepo) FindPrincipal(ctx context.Context) (*model.Tienda, error) {
	var t model.Tienda
	err := r.db.WithContext(ctx).Where("tipo = ?", model.TiendaPrincipal).First(&t).Error
	return &t, err
}

func (r *tiendaRepo) List(ctx context.Context, soloActivas bool) ([]model.Tienda, error) {
	var tiendas []model.Tienda
	q := r.db.WithContext(ctx)
	if soloActivas {
		q = q.Where("activa = true")
	}
	err := q.Order("tipo ASC, nombre ASC").Find(&tiendas).Error
	return tiendas, err
}

func (r *tiendaRepo) Update(ctx context.Context, t *model.Tienda) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tiendaRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Tienda{}).
		Where("id = ? AND tipo <> ?", id, model.TiendaPrincipal).
		Update("activa", false).Error
}
