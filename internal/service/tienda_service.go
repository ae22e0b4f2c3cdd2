package service

import (
	"context"
	"fmt"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"
	"github.com/programamos-tech/zonat-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TiendaService interface {
	Crear(ctx context.Context, req dto.CrearTiendaRequest) (*dto.TiendaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.TiendaResponse, error)
	Listar(ctx context.Context) ([]dto.TiendaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	ListarStock(ctx context.Context, tiendaID uuid.UUID, page, limit int) (*dto.TiendaStockListResponse, error)
	// ActualizarPrecio lets a micro-tienda re-price a product it carries.
	ActualizarPrecio(ctx context.Context, sc model.StoreContext, tiendaID uuid.UUID, req dto.ActualizarPrecioTiendaRequest) error
}

type tiendaService struct {
	repo        repository.TiendaRepository
	tiendaStock repository.TiendaStockRepository
	principalID uuid.UUID
}

func NewTiendaService(repo repository.TiendaRepository, tiendaStock repository.TiendaStockRepository, principalID uuid.UUID) TiendaService {
	return &tiendaService{repo: repo, tiendaStock: tiendaStock, principalID: principalID}
}

// Crear registers a micro-tienda. The principal exists from the seed and is
// never created through the API.
func (s *tiendaService) Crear(ctx context.Context, req dto.CrearTiendaRequest) (*dto.TiendaResponse, error) {
	t := &model.Tienda{
		Nombre:    req.Nombre,
		Tipo:      model.TiendaMicro,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
		Activa:    true,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return tiendaToResponse(t), nil
}

func (s *tiendaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.TiendaResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("tienda no encontrada: %w", err)
	}
	return tiendaToResponse(t), nil
}

func (s *tiendaService) Listar(ctx context.Context) ([]dto.TiendaResponse, error) {
	tiendas, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TiendaResponse, 0, len(tiendas))
	for _, t := range tiendas {
		out = append(out, *tiendaToResponse(&t))
	}
	return out, nil
}

func (s *tiendaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if id == s.principalID {
		return ErrTiendaInvalida
	}
	return s.repo.Desactivar(ctx, id)
}

func (s *tiendaService) ListarStock(ctx context.Context, tiendaID uuid.UUID, page, limit int) (*dto.TiendaStockListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	filas, total, err := s.tiendaStock.ListarPorTienda(ctx, tiendaID, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.TiendaStockResponse, 0, len(filas))
	for _, f := range filas {
		nombre, referencia := "", ""
		if f.Producto != nil {
			nombre, referencia = f.Producto.Nombre, f.Producto.Referencia
		}
		data = append(data, dto.TiendaStockResponse{
			ProductoID: f.ProductoID.String(),
			Nombre:     nombre,
			Referencia: referencia,
			Cantidad:   f.Cantidad,
			Costo:      f.Costo,
			Precio:     f.Precio,
		})
	}
	return &dto.TiendaStockListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *tiendaService) ActualizarPrecio(ctx context.Context, sc model.StoreContext, tiendaID uuid.UUID, req dto.ActualizarPrecioTiendaRequest) error {
	// Store staff can only touch their own shelf; admins of the principal
	// can re-price anywhere.
	if sc.TiendaID != nil && *sc.TiendaID != tiendaID {
		return ErrTiendaInvalida
	}
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return fmt.Errorf("producto_id invalido: %w", err)
	}
	return runTx(ctx, s.tiendaStock.DB(), func(tx *gorm.DB) error {
		return s.tiendaStock.ActualizarPrecioTx(tx, tiendaID, productoID, req.Costo, req.Precio)
	})
}

func tiendaToResponse(t *model.Tienda) *dto.TiendaResponse {
	return &dto.TiendaResponse{
		ID:        t.ID.String(),
		Nombre:    t.Nombre,
		Tipo:      t.Tipo,
		Direccion: t.Direccion,
		Telefono:  t.Telefono,
		Activa:    t.Activa,
		CreatedAt: t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
