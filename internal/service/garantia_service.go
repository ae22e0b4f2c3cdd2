package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"
	"github.com/programamos-tech/zonat-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GarantiaService interface {
	Crear(ctx context.Context, sc model.StoreContext, req dto.CrearGarantiaRequest) (*dto.GarantiaResponse, error)
	// Atender resolves the claim handing out replacement units: the deduction
	// goes through the same guarded ledger path as a sale.
	Atender(ctx context.Context, sc model.StoreContext, id uuid.UUID, req dto.ResolverGarantiaRequest) (*dto.GarantiaResponse, error)
	Rechazar(ctx context.Context, sc model.StoreContext, id uuid.UUID, req dto.ResolverGarantiaRequest) (*dto.GarantiaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.GarantiaResponse, error)
	List(ctx context.Context, estado string, page, limit int) ([]dto.GarantiaResponse, int64, error)
}

type garantiaService struct {
	repo         repository.GarantiaRepository
	productoRepo repository.ProductoRepository
	stock        StockService
	principalID  uuid.UUID
}

func NewGarantiaService(
	repo repository.GarantiaRepository,
	productoRepo repository.ProductoRepository,
	stock StockService,
	principalID uuid.UUID,
) GarantiaService {
	return &garantiaService{repo: repo, productoRepo: productoRepo, stock: stock, principalID: principalID}
}

func (s *garantiaService) Crear(ctx context.Context, sc model.StoreContext, req dto.CrearGarantiaRequest) (*dto.GarantiaResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id invalido: %w", err)
	}
	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		return nil, fmt.Errorf("producto no encontrado: %w", err)
	}

	garantia := model.Garantia{
		ProductoID: productoID,
		Cantidad:   req.Cantidad,
		Motivo:     req.Motivo,
		Estado:     model.GarantiaAbierta,
	}
	if req.VentaID != nil {
		if id, err := uuid.Parse(*req.VentaID); err == nil {
			garantia.VentaID = &id
		}
	}
	if req.ClienteID != nil {
		if id, err := uuid.Parse(*req.ClienteID); err == nil {
			garantia.ClienteID = &id
		}
	}
	if sc.TiendaID != nil && *sc.TiendaID != s.principalID {
		garantia.TiendaID = sc.TiendaID
	}

	if err := s.repo.Create(ctx, &garantia); err != nil {
		return nil, err
	}
	return s.Obtener(ctx, garantia.ID)
}

func (s *garantiaService) Atender(ctx context.Context, sc model.StoreContext, id uuid.UUID, req dto.ResolverGarantiaRequest) (*dto.GarantiaResponse, error) {
	garantia, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("garantia no encontrada: %w", err)
	}
	if garantia.Estado != model.GarantiaAbierta {
		return nil, ErrEstadoInvalido
	}

	// The claim is served from the ledger of the store that registered it,
	// not the store of whoever resolves it.
	scLedger := model.StoreContext{UsuarioID: sc.UsuarioID, TiendaID: garantia.TiendaID, Rol: sc.Rol}

	txErr := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		motivo := fmt.Sprintf("Garantia atendida: %s", req.Resolucion)
		if _, err := s.stock.DescontarTx(tx, scLedger, garantia.ProductoID, garantia.Cantidad, model.MovimientoGarantia, motivo, &garantia.ID); err != nil {
			return err
		}
		if err := s.repo.UpdateEstadoTx(tx, id, model.GarantiaAtendida, sc.UsuarioID, req.Resolucion); err != nil {
			if errors.Is(err, repository.ErrSinEfecto) {
				return ErrEstadoInvalido
			}
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Obtener(ctx, id)
}

func (s *garantiaService) Rechazar(ctx context.Context, sc model.StoreContext, id uuid.UUID, req dto.ResolverGarantiaRequest) (*dto.GarantiaResponse, error) {
	txErr := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		err := s.repo.UpdateEstadoTx(tx, id, model.GarantiaRechazada, sc.UsuarioID, req.Resolucion)
		if errors.Is(err, repository.ErrSinEfecto) {
			return ErrEstadoInvalido
		}
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Obtener(ctx, id)
}

func (s *garantiaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.GarantiaResponse, error) {
	garantia, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("garantia no encontrada: %w", err)
	}
	return garantiaToResponse(garantia), nil
}

func (s *garantiaService) List(ctx context.Context, estado string, page, limit int) ([]dto.GarantiaResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	garantias, total, err := s.repo.List(ctx, estado, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.GarantiaResponse, 0, len(garantias))
	for _, g := range garantias {
		out = append(out, *garantiaToResponse(&g))
	}
	return out, total, nil
}

func garantiaToResponse(g *model.Garantia) *dto.GarantiaResponse {
	var ventaID *string
	if g.VentaID != nil {
		id := g.VentaID.String()
		ventaID = &id
	}
	nombre := ""
	if g.Producto != nil {
		nombre = g.Producto.Nombre
	}
	return &dto.GarantiaResponse{
		ID:         g.ID.String(),
		VentaID:    ventaID,
		ProductoID: g.ProductoID.String(),
		Producto:   nombre,
		Cantidad:   g.Cantidad,
		Motivo:     g.Motivo,
		Estado:     g.Estado,
		Resolucion: g.Resolucion,
		CreatedAt:  g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
