package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"
	"github.com/programamos-tech/zonat-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockService is the single owner of every stock mutation. The tienda
// principal keeps two counters per product (bodega + local) on the catalog
// row; each micro-tienda keeps one quantity per product in tienda_stocks.
//
// Rules enforced here:
//   - sales deduct local first and spill the remainder to bodega; the exact
//     split is returned so reversals can be precise
//   - sale returns always credit local, never bodega
//   - every mutation writes its MovimientoStock in the same transaction
//
// Tx-suffixed methods participate in a caller-owned transaction (the venta or
// traslado that triggered them); the rest open their own.
type StockService interface {
	StockDisponible(ctx context.Context, sc model.StoreContext, productoID uuid.UUID) (*dto.StockDisponible, error)
	AjustarStock(ctx context.Context, sc model.StoreContext, productoID uuid.UUID, req dto.AjustarStockRequest) error
	MoverEntreUbicaciones(ctx context.Context, sc model.StoreContext, productoID uuid.UUID, req dto.MoverStockRequest) error
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) ([]dto.MovimientoResponse, int64, error)

	DescontarTx(tx *gorm.DB, sc model.StoreContext, productoID uuid.UUID, cantidad int, tipo, motivo string, referenciaID *uuid.UUID) (*dto.DescuentoStock, error)
	DevolverTx(tx *gorm.DB, sc model.StoreContext, productoID uuid.UUID, cantidad int, tipo, motivo string, referenciaID *uuid.UUID) error
	// DevolverLote applies each return in its own transaction and reports
	// per-item outcomes; one bad line never blocks the rest.
	DevolverLote(ctx context.Context, sc model.StoreContext, items []dto.ItemDevolucion, tipo, motivo string, referenciaID *uuid.UUID) *dto.ResultadoLote

	// Traslado primitives. tiendaID == nil targets the principal ledger.
	SalidaTrasladoTx(tx *gorm.DB, tiendaID *uuid.UUID, productoID uuid.UUID, cantidad int, preferida model.Ubicacion, motivo string, referenciaID *uuid.UUID) (deBodega, deLocal int, err error)
	EntradaTrasladoTx(tx *gorm.DB, tiendaID *uuid.UUID, productoID uuid.UUID, cantidad int, costo decimal.Decimal, motivo string, referenciaID *uuid.UUID) error
	ReversaTrasladoTx(tx *gorm.DB, tiendaID *uuid.UUID, productoID uuid.UUID, deBodega, deLocal int, motivo string, referenciaID *uuid.UUID) error
}

type stockService struct {
	productoRepo repository.ProductoRepository
	tiendaStock  repository.TiendaStockRepository
	movimientos  repository.MovimientoStockRepository
	// principalID is the well-known id of the tienda principal, resolved once
	// at startup.
	principalID uuid.UUID
}

func NewStockService(
	productoRepo repository.ProductoRepository,
	tiendaStock repository.TiendaStockRepository,
	movimientos repository.MovimientoStockRepository,
	principalID uuid.UUID,
) StockService {
	return &stockService{
		productoRepo: productoRepo,
		tiendaStock:  tiendaStock,
		movimientos:  movimientos,
		principalID:  principalID,
	}
}

// tiendaEfectiva normalizes a StoreContext to the ledger it targets:
// nil = principal counters, otherwise the micro-tienda's stock rows.
func (s *stockService) tiendaEfectiva(sc model.StoreContext) *uuid.UUID {
	if sc.EsPrincipal(s.principalID) {
		return nil
	}
	return sc.TiendaID
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *stockService) StockDisponible(ctx context.Context, sc model.StoreContext, productoID uuid.UUID) (*dto.StockDisponible, error) {
	if tienda := s.tiendaEfectiva(sc); tienda != nil {
		ts, err := s.tiendaStock.Find(ctx, *tienda, productoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Missing row means zero stock, not an error.
				return &dto.StockDisponible{ProductoID: productoID.String()}, nil
			}
			return nil, fmt.Errorf("consultando stock de tienda: %w", err)
		}
		return &dto.StockDisponible{
			ProductoID: productoID.String(),
			Local:      ts.Cantidad,
			Total:      ts.Cantidad,
		}, nil
	}

	p, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, fmt.Errorf("consultando producto: %w", err)
	}
	return &dto.StockDisponible{
		ProductoID: productoID.String(),
		Bodega:     p.StockBodega,
		Local:      p.StockLocal,
		Total:      p.StockTotal(),
	}, nil
}

func (s *stockService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) ([]dto.MovimientoResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movimientos, total, err := s.movimientos.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.MovimientoResponse, 0, len(movimientos))
	for _, m := range movimientos {
		out = append(out, movimientoToResponse(&m))
	}
	return out, total, nil
}

// ── Descuento y devolucion (ventas / garantias) ──────────────────────────────

func (s *stockService) DescontarTx(tx *gorm.DB, sc model.StoreContext, productoID uuid.UUID, cantidad int, tipo, motivo string, referenciaID *uuid.UUID) (*dto.DescuentoStock, error) {
	if cantidad <= 0 {
		return nil, ErrCantidadInvalida
	}

	if tienda := s.tiendaEfectiva(sc); tienda != nil {
		return s.descontarMicro(tx, *tienda, productoID, cantidad, tipo, motivo, referenciaID)
	}
	return s.descontarPrincipal(tx, productoID, cantidad, tipo, motivo, referenciaID)
}

// descontarPrincipal takes local first and spills the remainder to bodega.
// The row lock makes split computation and update atomic against concurrent
// deductions; the guarded update is a second line of defense.
func (s *stockService) descontarPrincipal(tx *gorm.DB, productoID uuid.UUID, cantidad int, tipo, motivo string, referenciaID *uuid.UUID) (*dto.DescuentoStock, error) {
	p, err := s.productoRepo.FindByIDForUpdate(tx, productoID)
	if err != nil {
		return nil, fmt.Errorf("bloqueando producto: %w", err)
	}
	if p.StockTotal() < cantidad {
		return nil, ErrStockInsuficiente
	}

	deLocal := cantidad
	if deLocal > p.StockLocal {
		deLocal = p.StockLocal
	}
	deBodega := cantidad - deLocal

	if err := s.productoRepo.AjustarContadoresTx(tx, productoID, -deBodega, -deLocal); err != nil {
		if errors.Is(err, repository.ErrSinEfecto) {
			return nil, ErrStockInsuficiente
		}
		return nil, err
	}

	if deLocal > 0 {
		if err := s.registrarMovimiento(tx, productoID, nil, model.UbicacionLocal, tipo, -deLocal, p.StockLocal, p.StockLocal-deLocal, motivo, referenciaID); err != nil {
			return nil, err
		}
	}
	if deBodega > 0 {
		if err := s.registrarMovimiento(tx, productoID, nil, model.UbicacionBodega, tipo, -deBodega, p.StockBodega, p.StockBodega-deBodega, motivo, referenciaID); err != nil {
			return nil, err
		}
	}

	return &dto.DescuentoStock{
		ProductoID: productoID.String(),
		Cantidad:   cantidad,
		DeBodega:   deBodega,
		DeLocal:    deLocal,
	}, nil
}

func (s *stockService) descontarMicro(tx *gorm.DB, tiendaID, productoID uuid.UUID, cantidad int, tipo, motivo string, referenciaID *uuid.UUID) (*dto.DescuentoStock, error) {
	if err := s.tiendaStock.DescontarTx(tx, tiendaID, productoID, cantidad); err != nil {
		if errors.Is(err, repository.ErrSinEfecto) {
			return nil, ErrStockInsuficiente
		}
		return nil, err
	}

	nuevo := 0
	if ts, err := s.tiendaStock.FindTx(tx, tiendaID, productoID); err == nil {
		nuevo = ts.Cantidad
	}
	if err := s.registrarMovimiento(tx, productoID, &tiendaID, model.UbicacionLocal, tipo, -cantidad, nuevo+cantidad, nuevo, motivo, referenciaID); err != nil {
		return nil, err
	}

	return &dto.DescuentoStock{
		ProductoID: productoID.String(),
		Cantidad:   cantidad,
		DeLocal:    cantidad,
	}, nil
}

// DevolverTx credits a sale return. Returned units always land in local,
// they come back over the counter and not to the warehouse, even when the
// deduction originally drew from bodega.
func (s *stockService) DevolverTx(tx *gorm.DB, sc model.StoreContext, productoID uuid.UUID, cantidad int, tipo, motivo string, referenciaID *uuid.UUID) error {
	if cantidad <= 0 {
		return ErrCantidadInvalida
	}

	if tienda := s.tiendaEfectiva(sc); tienda != nil {
		p, err := s.productoRepo.FindByID(context.Background(), productoID)
		costo := decimal.Zero
		if err == nil {
			costo = p.PrecioCosto
		}
		if err := s.tiendaStock.IncrementarTx(tx, *tienda, productoID, cantidad, costo); err != nil {
			return err
		}
		nuevo := cantidad
		if ts, err := s.tiendaStock.FindTx(tx, *tienda, productoID); err == nil {
			nuevo = ts.Cantidad
		}
		return s.registrarMovimiento(tx, productoID, tienda, model.UbicacionLocal, tipo, cantidad, nuevo-cantidad, nuevo, motivo, referenciaID)
	}

	p, err := s.productoRepo.FindByIDForUpdate(tx, productoID)
	if err != nil {
		return fmt.Errorf("bloqueando producto: %w", err)
	}
	if err := s.productoRepo.AjustarContadoresTx(tx, productoID, 0, cantidad); err != nil {
		return err
	}
	return s.registrarMovimiento(tx, productoID, nil, model.UbicacionLocal, tipo, cantidad, p.StockLocal, p.StockLocal+cantidad, motivo, referenciaID)
}

func (s *stockService) DevolverLote(ctx context.Context, sc model.StoreContext, items []dto.ItemDevolucion, tipo, motivo string, referenciaID *uuid.UUID) *dto.ResultadoLote {
	resultado := &dto.ResultadoLote{Exito: true}
	for _, item := range items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			resultado.Exito = false
			resultado.Resultados = append(resultado.Resultados, dto.ResultadoItem{
				ProductoID: item.ProductoID,
				Error:      "producto_id invalido",
			})
			continue
		}

		err = runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
			return s.DevolverTx(tx, sc, pid, item.Cantidad, tipo, motivo, referenciaID)
		})
		if err != nil {
			log.Warn().Err(err).Str("producto_id", item.ProductoID).Msg("devolucion de item fallida")
			resultado.Exito = false
			resultado.Resultados = append(resultado.Resultados, dto.ResultadoItem{
				ProductoID: item.ProductoID,
				Error:      err.Error(),
			})
			continue
		}
		resultado.Resultados = append(resultado.Resultados, dto.ResultadoItem{
			ProductoID: item.ProductoID,
			Exito:      true,
		})
	}
	return resultado
}

// ── Ajustes y movimientos internos ───────────────────────────────────────────

// AjustarStock sets a counter to an absolute quantity, recording the delta.
// Micro-tiendas only have the local counter; a bodega adjustment there is
// rejected.
func (s *stockService) AjustarStock(ctx context.Context, sc model.StoreContext, productoID uuid.UUID, req dto.AjustarStockRequest) error {
	if req.NuevaCantidad < 0 {
		return ErrCantidadInvalida
	}
	ubicacion := model.Ubicacion(req.Ubicacion)
	if !ubicacion.Valida() {
		return ErrUbicacionInvalida
	}

	tienda := s.tiendaEfectiva(sc)
	if tienda != nil && ubicacion == model.UbicacionBodega {
		return ErrUbicacionInvalida
	}
	return runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		if tienda != nil {
			actual := 0
			if ts, err := s.tiendaStock.FindTx(tx, *tienda, productoID); err == nil {
				actual = ts.Cantidad
			}
			delta := req.NuevaCantidad - actual
			if delta == 0 {
				return nil
			}
			p, err := s.productoRepo.FindByID(ctx, productoID)
			costo := decimal.Zero
			if err == nil {
				costo = p.PrecioCosto
			}
			if delta > 0 {
				if err := s.tiendaStock.IncrementarTx(tx, *tienda, productoID, delta, costo); err != nil {
					return err
				}
			} else {
				if err := s.tiendaStock.DescontarTx(tx, *tienda, productoID, -delta); err != nil {
					if errors.Is(err, repository.ErrSinEfecto) {
						return ErrStockInsuficiente
					}
					return err
				}
			}
			return s.registrarMovimiento(tx, productoID, tienda, model.UbicacionLocal, model.MovimientoAjuste, delta, actual, req.NuevaCantidad, req.Motivo, nil)
		}

		p, err := s.productoRepo.FindByIDForUpdate(tx, productoID)
		if err != nil {
			return fmt.Errorf("bloqueando producto: %w", err)
		}
		actual := p.StockBodega
		deltaBodega, deltaLocal := req.NuevaCantidad-p.StockBodega, 0
		if ubicacion == model.UbicacionLocal {
			actual = p.StockLocal
			deltaBodega, deltaLocal = 0, req.NuevaCantidad-p.StockLocal
		}
		if deltaBodega == 0 && deltaLocal == 0 {
			return nil
		}
		if err := s.productoRepo.AjustarContadoresTx(tx, productoID, deltaBodega, deltaLocal); err != nil {
			if errors.Is(err, repository.ErrSinEfecto) {
				return ErrStockInsuficiente
			}
			return err
		}
		return s.registrarMovimiento(tx, productoID, nil, ubicacion, model.MovimientoAjuste, req.NuevaCantidad-actual, actual, req.NuevaCantidad, req.Motivo, nil)
	})
}

// MoverEntreUbicaciones shifts units bodega↔local at the tienda principal.
// Total stock never changes; both movements land in the audit trail.
func (s *stockService) MoverEntreUbicaciones(ctx context.Context, sc model.StoreContext, productoID uuid.UUID, req dto.MoverStockRequest) error {
	if req.Cantidad <= 0 {
		return ErrCantidadInvalida
	}
	desde, hacia := model.Ubicacion(req.Desde), model.Ubicacion(req.Hacia)
	if !desde.Valida() || !hacia.Valida() || desde == hacia {
		return ErrUbicacionInvalida
	}
	if s.tiendaEfectiva(sc) != nil {
		// Micro-tiendas have a single counter; nothing to move between.
		return ErrTiendaInvalida
	}

	return runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		p, err := s.productoRepo.FindByIDForUpdate(tx, productoID)
		if err != nil {
			return fmt.Errorf("bloqueando producto: %w", err)
		}

		deltaBodega, deltaLocal := -req.Cantidad, req.Cantidad
		if desde == model.UbicacionLocal {
			deltaBodega, deltaLocal = req.Cantidad, -req.Cantidad
		}
		if err := s.productoRepo.AjustarContadoresTx(tx, productoID, deltaBodega, deltaLocal); err != nil {
			if errors.Is(err, repository.ErrSinEfecto) {
				return ErrStockInsuficiente
			}
			return err
		}

		motivo := fmt.Sprintf("movimiento interno %s -> %s", desde, hacia)
		if err := s.registrarMovimiento(tx, productoID, nil, model.UbicacionBodega, model.MovimientoAjuste, deltaBodega, p.StockBodega, p.StockBodega+deltaBodega, motivo, nil); err != nil {
			return err
		}
		return s.registrarMovimiento(tx, productoID, nil, model.UbicacionLocal, model.MovimientoAjuste, deltaLocal, p.StockLocal, p.StockLocal+deltaLocal, motivo, nil)
	})
}

// ── Primitivas de traslado ───────────────────────────────────────────────────

// SalidaTrasladoTx deducts a transfer line from its origin. At the principal
// the preferred counter is drained first and the remainder spills to the
// other; the actual split is returned so cancellation can restore it exactly.
func (s *stockService) SalidaTrasladoTx(tx *gorm.DB, tiendaID *uuid.UUID, productoID uuid.UUID, cantidad int, preferida model.Ubicacion, motivo string, referenciaID *uuid.UUID) (int, int, error) {
	if cantidad <= 0 {
		return 0, 0, ErrCantidadInvalida
	}

	if tiendaID != nil {
		if err := s.tiendaStock.DescontarTx(tx, *tiendaID, productoID, cantidad); err != nil {
			if errors.Is(err, repository.ErrSinEfecto) {
				return 0, 0, ErrStockInsuficiente
			}
			return 0, 0, err
		}
		nuevo := 0
		if ts, err := s.tiendaStock.FindTx(tx, *tiendaID, productoID); err == nil {
			nuevo = ts.Cantidad
		}
		if err := s.registrarMovimiento(tx, productoID, tiendaID, model.UbicacionLocal, model.MovimientoTrasladoSalida, -cantidad, nuevo+cantidad, nuevo, motivo, referenciaID); err != nil {
			return 0, 0, err
		}
		return 0, cantidad, nil
	}

	p, err := s.productoRepo.FindByIDForUpdate(tx, productoID)
	if err != nil {
		return 0, 0, fmt.Errorf("bloqueando producto: %w", err)
	}
	if p.StockTotal() < cantidad {
		return 0, 0, ErrStockInsuficiente
	}

	disponiblePreferida := p.StockBodega
	if preferida == model.UbicacionLocal {
		disponiblePreferida = p.StockLocal
	}
	dePreferida := cantidad
	if dePreferida > disponiblePreferida {
		dePreferida = disponiblePreferida
	}
	resto := cantidad - dePreferida

	deBodega, deLocal := dePreferida, resto
	if preferida == model.UbicacionLocal {
		deBodega, deLocal = resto, dePreferida
	}

	if err := s.productoRepo.AjustarContadoresTx(tx, productoID, -deBodega, -deLocal); err != nil {
		if errors.Is(err, repository.ErrSinEfecto) {
			return 0, 0, ErrStockInsuficiente
		}
		return 0, 0, err
	}

	if deBodega > 0 {
		if err := s.registrarMovimiento(tx, productoID, nil, model.UbicacionBodega, model.MovimientoTrasladoSalida, -deBodega, p.StockBodega, p.StockBodega-deBodega, motivo, referenciaID); err != nil {
			return 0, 0, err
		}
	}
	if deLocal > 0 {
		if err := s.registrarMovimiento(tx, productoID, nil, model.UbicacionLocal, model.MovimientoTrasladoSalida, -deLocal, p.StockLocal, p.StockLocal-deLocal, motivo, referenciaID); err != nil {
			return 0, 0, err
		}
	}
	return deBodega, deLocal, nil
}

// EntradaTrasladoTx credits received units at the destination. A micro
// destination snapshots the transfer's unit price as its cost on first
// receipt; the principal receives into bodega.
func (s *stockService) EntradaTrasladoTx(tx *gorm.DB, tiendaID *uuid.UUID, productoID uuid.UUID, cantidad int, costo decimal.Decimal, motivo string, referenciaID *uuid.UUID) error {
	if cantidad <= 0 {
		return ErrCantidadInvalida
	}

	if tiendaID != nil {
		if err := s.tiendaStock.IncrementarTx(tx, *tiendaID, productoID, cantidad, costo); err != nil {
			return err
		}
		nuevo := cantidad
		if ts, err := s.tiendaStock.FindTx(tx, *tiendaID, productoID); err == nil {
			nuevo = ts.Cantidad
		}
		return s.registrarMovimiento(tx, productoID, tiendaID, model.UbicacionLocal, model.MovimientoTrasladoEntrada, cantidad, nuevo-cantidad, nuevo, motivo, referenciaID)
	}

	p, err := s.productoRepo.FindByIDForUpdate(tx, productoID)
	if err != nil {
		return fmt.Errorf("bloqueando producto: %w", err)
	}
	if err := s.productoRepo.AjustarContadoresTx(tx, productoID, cantidad, 0); err != nil {
		return err
	}
	return s.registrarMovimiento(tx, productoID, nil, model.UbicacionBodega, model.MovimientoTrasladoEntrada, cantidad, p.StockBodega, p.StockBodega+cantidad, motivo, referenciaID)
}

// ReversaTrasladoTx restores a cancelled transfer line to the exact counters
// the deduction drew from.
func (s *stockService) ReversaTrasladoTx(tx *gorm.DB, tiendaID *uuid.UUID, productoID uuid.UUID, deBodega, deLocal int, motivo string, referenciaID *uuid.UUID) error {
	if deBodega < 0 || deLocal < 0 || deBodega+deLocal == 0 {
		return ErrCantidadInvalida
	}

	if tiendaID != nil {
		cantidad := deBodega + deLocal
		p, err := s.productoRepo.FindByID(context.Background(), productoID)
		costo := decimal.Zero
		if err == nil {
			costo = p.PrecioCosto
		}
		if err := s.tiendaStock.IncrementarTx(tx, *tiendaID, productoID, cantidad, costo); err != nil {
			return err
		}
		nuevo := cantidad
		if ts, err := s.tiendaStock.FindTx(tx, *tiendaID, productoID); err == nil {
			nuevo = ts.Cantidad
		}
		return s.registrarMovimiento(tx, productoID, tiendaID, model.UbicacionLocal, model.MovimientoTrasladoReversa, cantidad, nuevo-cantidad, nuevo, motivo, referenciaID)
	}

	p, err := s.productoRepo.FindByIDForUpdate(tx, productoID)
	if err != nil {
		return fmt.Errorf("bloqueando producto: %w", err)
	}
	if err := s.productoRepo.AjustarContadoresTx(tx, productoID, deBodega, deLocal); err != nil {
		return err
	}
	if deBodega > 0 {
		if err := s.registrarMovimiento(tx, productoID, nil, model.UbicacionBodega, model.MovimientoTrasladoReversa, deBodega, p.StockBodega, p.StockBodega+deBodega, motivo, referenciaID); err != nil {
			return err
		}
	}
	if deLocal > 0 {
		if err := s.registrarMovimiento(tx, productoID, nil, model.UbicacionLocal, model.MovimientoTrasladoReversa, deLocal, p.StockLocal, p.StockLocal+deLocal, motivo, referenciaID); err != nil {
			return err
		}
	}
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *stockService) registrarMovimiento(tx *gorm.DB, productoID uuid.UUID, tiendaID *uuid.UUID, ubicacion model.Ubicacion, tipo string, cantidad, anterior, nuevo int, motivo string, referenciaID *uuid.UUID) error {
	return s.movimientos.CreateTx(tx, &model.MovimientoStock{
		ProductoID:    productoID,
		TiendaID:      tiendaID,
		Ubicacion:     ubicacion,
		Tipo:          tipo,
		Cantidad:      cantidad,
		StockAnterior: anterior,
		StockNuevo:    nuevo,
		Motivo:        motivo,
		ReferenciaID:  referenciaID,
	})
}

func movimientoToResponse(m *model.MovimientoStock) dto.MovimientoResponse {
	var tiendaID *string
	if m.TiendaID != nil {
		id := m.TiendaID.String()
		tiendaID = &id
	}
	return dto.MovimientoResponse{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		TiendaID:      tiendaID,
		Ubicacion:     string(m.Ubicacion),
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Motivo:        m.Motivo,
		CreatedAt:     m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
