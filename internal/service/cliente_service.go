package service

import (
	"context"
	"fmt"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"
	"github.com/programamos-tech/zonat-sub000/internal/repository"

	"github.com/google/uuid"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, buscar string, page, limit int) ([]dto.ClienteResponse, int64, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{
		Nombre:    req.Nombre,
		Documento: req.Documento,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Direccion: req.Direccion,
		Activo:    true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cliente no encontrado: %w", err)
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context, buscar string, page, limit int) ([]dto.ClienteResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	clientes, total, err := s.repo.List(ctx, buscar, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ClienteResponse, 0, len(clientes))
	for _, c := range clientes {
		out = append(out, *clienteToResponse(&c))
	}
	return out, total, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cliente no encontrado: %w", err)
	}
	c.Nombre = req.Nombre
	c.Documento = req.Documento
	c.Telefono = req.Telefono
	c.Email = req.Email
	c.Direccion = req.Direccion
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	var tiendaID *string
	if c.TiendaID != nil {
		id := c.TiendaID.String()
		tiendaID = &id
	}
	return &dto.ClienteResponse{
		ID:        c.ID.String(),
		Nombre:    c.Nombre,
		Documento: c.Documento,
		Telefono:  c.Telefono,
		Email:     c.Email,
		Direccion: c.Direccion,
		TiendaID:  tiendaID,
		Activo:    c.Activo,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
