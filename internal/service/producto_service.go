package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"
	"github.com/programamos-tech/zonat-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// precioCacheTTL bounds staleness of the public price-check endpoint.
const precioCacheTTL = 5 * time.Minute

// ProductoService defines the business logic contract for the catalog.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	// Eliminar removes a product permanently. Refused while any stock remains
	// anywhere, so no ledger row ever dangles.
	Eliminar(ctx context.Context, id uuid.UUID) error
	// ConsultarPrecio serves the public price check, cached in Redis.
	ConsultarPrecio(ctx context.Context, referencia string) (*dto.PrecioResponse, error)
}

type productoService struct {
	repo        repository.ProductoRepository
	tiendaStock repository.TiendaStockRepository
	rdb         *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, tiendaStock repository.TiendaStockRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, tiendaStock: tiendaStock, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		Referencia:  req.Referencia,
		Nombre:      req.Nombre,
		Marca:       req.Marca,
		PrecioVenta: req.PrecioVenta,
		PrecioCosto: req.PrecioCosto,
		StockBodega: req.StockBodega,
		StockLocal:  req.StockLocal,
		StockMinimo: req.StockMinimo,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("producto no encontrado: %w", err)
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		data = append(data, *productoToResponse(&p))
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("producto no encontrado: %w", err)
	}
	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.Marca != nil {
		p.Marca = *req.Marca
	}
	if req.PrecioVenta != nil {
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.PrecioCosto != nil {
		p.PrecioCosto = *req.PrecioCosto
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarPrecio(ctx, p.Referencia)
	return productoToResponse(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("producto no encontrado: %w", err)
	}
	if err := s.repo.Desactivar(ctx, id); err != nil {
		return err
	}
	s.invalidarPrecio(ctx, p.Referencia)
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivar(ctx, id)
}

func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	// Micro-tienda rows count too: a product with units out in the stores
	// cannot disappear from the catalog.
	enTiendas, err := s.tiendaStock.ListarPorProducto(ctx, id)
	if err != nil {
		return err
	}
	if len(enTiendas) > 0 {
		return ErrStockInsuficiente
	}
	if err := s.repo.Eliminar(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSinEfecto) {
			return ErrStockInsuficiente
		}
		return err
	}
	return nil
}

func (s *productoService) ConsultarPrecio(ctx context.Context, referencia string) (*dto.PrecioResponse, error) {
	key := "precio:" + referencia
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp dto.PrecioResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByReferencia(ctx, referencia)
	if err != nil {
		return nil, fmt.Errorf("producto no encontrado: %w", err)
	}
	resp := &dto.PrecioResponse{
		Referencia:  p.Referencia,
		Nombre:      p.Nombre,
		PrecioVenta: p.PrecioVenta,
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, data, precioCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("referencia", referencia).Msg("no se pudo cachear el precio")
			}
		}
	}
	return resp, nil
}

func (s *productoService) invalidarPrecio(ctx context.Context, referencia string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, "precio:"+referencia).Err(); err != nil {
		log.Warn().Err(err).Str("referencia", referencia).Msg("no se pudo invalidar el cache de precio")
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:          p.ID.String(),
		Referencia:  p.Referencia,
		Nombre:      p.Nombre,
		Marca:       p.Marca,
		PrecioVenta: p.PrecioVenta,
		PrecioCosto: p.PrecioCosto,
		StockBodega: p.StockBodega,
		StockLocal:  p.StockLocal,
		StockTotal:  p.StockTotal(),
		StockMinimo: p.StockMinimo,
		Activo:      p.Activo,
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
