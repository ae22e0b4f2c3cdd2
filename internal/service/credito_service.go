package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"
	"github.com/programamos-tech/zonat-sub000/internal/repository"
	"github.com/programamos-tech/zonat-sub000/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreditoService interface {
	RegistrarAbono(ctx context.Context, sc model.StoreContext, creditoID uuid.UUID, req dto.RegistrarAbonoRequest) (*dto.CreditoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CreditoResponse, error)
	ObtenerPorVenta(ctx context.Context, ventaID uuid.UUID) (*dto.CreditoResponse, error)
	List(ctx context.Context, filter dto.CreditoFilter) (*dto.CreditoListResponse, error)
}

type creditoService struct {
	repo       repository.CreditoRepository
	dispatcher *worker.Dispatcher
}

func NewCreditoService(repo repository.CreditoRepository, dispatcher *worker.Dispatcher) CreditoService {
	return &creditoService{repo: repo, dispatcher: dispatcher}
}

// RegistrarAbono applies an installment. The credito row is locked, the abono
// appended and the balance moved in one transaction; an abono larger than the
// remaining balance is rejected, never truncated.
func (s *creditoService) RegistrarAbono(ctx context.Context, sc model.StoreContext, creditoID uuid.UUID, req dto.RegistrarAbonoRequest) (*dto.CreditoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, ErrCantidadInvalida
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		credito, err := s.repo.FindByIDForUpdate(tx, creditoID)
		if err != nil {
			return fmt.Errorf("credito no encontrado: %w", err)
		}
		if credito.Estado == model.CreditoAnulado || credito.Estado == model.CreditoCompletado {
			return ErrEstadoInvalido
		}
		if req.Monto.GreaterThan(credito.MontoPendiente) {
			return ErrPagoExcesivo
		}

		abono := model.Abono{
			CreditoID: creditoID,
			UsuarioID: sc.UsuarioID,
			Metodo:    req.Metodo,
			Monto:     req.Monto,
			Notas:     req.Notas,
		}
		if err := s.repo.CreateAbonoTx(tx, &abono); err != nil {
			return err
		}

		nuevoEstado := model.CreditoParcial
		if credito.MontoPendiente.Equal(req.Monto) {
			nuevoEstado = model.CreditoCompletado
		}
		if err := s.repo.AplicarAbonoTx(tx, creditoID, req.Monto, nuevoEstado); err != nil {
			if errors.Is(err, repository.ErrSinEfecto) {
				return ErrPagoExcesivo
			}
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueBitacora(ctx, map[string]interface{}{
			"usuario_id": sc.UsuarioID.String(),
			"modulo":     "creditos",
			"accion":     "abonar",
			"detalles": map[string]interface{}{
				"credito_id": creditoID.String(),
				"monto":      req.Monto.String(),
				"metodo":     req.Metodo,
			},
		})
	}

	return s.Obtener(ctx, creditoID)
}

func (s *creditoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CreditoResponse, error) {
	credito, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("credito no encontrado: %w", err)
	}
	return creditoToResponse(credito), nil
}

func (s *creditoService) ObtenerPorVenta(ctx context.Context, ventaID uuid.UUID) (*dto.CreditoResponse, error) {
	credito, err := s.repo.FindByVentaID(ctx, ventaID)
	if err != nil {
		return nil, fmt.Errorf("la venta no tiene credito asociado: %w", err)
	}
	return creditoToResponse(credito), nil
}

func (s *creditoService) List(ctx context.Context, filter dto.CreditoFilter) (*dto.CreditoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	creditos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CreditoResponse, 0, len(creditos))
	for _, c := range creditos {
		data = append(data, *creditoToResponse(&c))
	}
	return &dto.CreditoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func creditoToResponse(c *model.Credito) *dto.CreditoResponse {
	abonos := make([]dto.AbonoResponse, 0, len(c.Abonos))
	for _, a := range c.Abonos {
		abonos = append(abonos, dto.AbonoResponse{
			ID:        a.ID.String(),
			Monto:     a.Monto,
			Metodo:    a.Metodo,
			Notas:     a.Notas,
			Anulado:   a.Anulado,
			CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.CreditoResponse{
		ID:             c.ID.String(),
		VentaID:        c.VentaID.String(),
		ClienteID:      c.ClienteID.String(),
		MontoTotal:     c.MontoTotal,
		MontoPagado:    c.MontoPagado,
		MontoPendiente: c.MontoPendiente,
		Estado:         c.Estado,
		Abonos:         abonos,
		CreatedAt:      c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
