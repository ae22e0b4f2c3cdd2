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
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	CrearVenta(ctx context.Context, sc model.StoreContext, req dto.CrearVentaRequest) (*dto.VentaResponse, error)
	CompletarVenta(ctx context.Context, sc model.StoreContext, id uuid.UUID) (*dto.VentaResponse, error)
	AnularVenta(ctx context.Context, sc model.StoreContext, id uuid.UUID, motivo string) (*dto.AnulacionVentaResponse, error)
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, sc model.StoreContext, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	tiendaStock  repository.TiendaStockRepository
	creditoRepo  repository.CreditoRepository
	stock        StockService
	dispatcher   *worker.Dispatcher
	principalID  uuid.UUID
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	tiendaStock repository.TiendaStockRepository,
	creditoRepo repository.CreditoRepository,
	stock StockService,
	dispatcher *worker.Dispatcher,
	principalID uuid.UUID,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		tiendaStock:  tiendaStock,
		creditoRepo:  creditoRepo,
		stock:        stock,
		dispatcher:   dispatcher,
		principalID:  principalID,
	}
}

// tiendaVenta resolves the tienda a sale belongs to: the user's assigned
// micro-tienda, or the principal when none is assigned.
func (s *ventaService) tiendaVenta(sc model.StoreContext) uuid.UUID {
	if sc.TiendaID != nil {
		return *sc.TiendaID
	}
	return s.principalID
}

type lineaResuelta struct {
	productoID uuid.UUID
	nombre     string
	referencia string
	precio     decimal.Decimal
	cantidad   int
	descuento  decimal.Decimal
	subtotal   decimal.Decimal
}

// resolverItems snapshots name, reference and price per line. A micro-tienda
// sells at its own TiendaStock price when set; the catalog price otherwise.
func (s *ventaService) resolverItems(ctx context.Context, sc model.StoreContext, items []dto.ItemVentaRequest) ([]lineaResuelta, decimal.Decimal, decimal.Decimal, error) {
	var resueltas []lineaResuelta
	subtotal := decimal.Zero
	descuentoTotal := decimal.Zero

	for _, item := range items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("producto_id invalido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}
		if !p.Activo {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("producto %s esta inactivo", p.Nombre)
		}

		precio := p.PrecioVenta
		if sc.TiendaID != nil && *sc.TiendaID != s.principalID {
			if ts, err := s.tiendaStock.Find(ctx, *sc.TiendaID, pid); err == nil && ts.Precio != nil && ts.Precio.IsPositive() {
				precio = *ts.Precio
			}
		}

		lineaSubtotal := precio.Mul(decimal.NewFromInt(int64(item.Cantidad))).Sub(item.Descuento)
		if lineaSubtotal.IsNegative() {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("descuento mayor que el valor de la linea de %s", p.Nombre)
		}
		subtotal = subtotal.Add(lineaSubtotal)
		descuentoTotal = descuentoTotal.Add(item.Descuento)
		resueltas = append(resueltas, lineaResuelta{
			productoID: pid,
			nombre:     p.Nombre,
			referencia: p.Referencia,
			precio:     precio,
			cantidad:   item.Cantidad,
			descuento:  item.Descuento,
			subtotal:   lineaSubtotal,
		})
	}
	return resueltas, subtotal, descuentoTotal, nil
}

// ── CrearVenta ───────────────────────────────────────────────────────────────
// Stock is deducted only when the sale completes. A borrador stores the lines
// at today's prices and waits; completing it later deducts at that moment.

func (s *ventaService) CrearVenta(ctx context.Context, sc model.StoreContext, req dto.CrearVentaRequest) (*dto.VentaResponse, error) {
	resueltas, subtotal, descuentoTotal, err := s.resolverItems(ctx, sc, req.Items)
	if err != nil {
		return nil, err
	}
	total := subtotal

	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		id, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id invalido: %w", err)
		}
		clienteID = &id
	}

	if req.MetodoPago == model.PagoCredito {
		if clienteID == nil {
			return nil, errors.New("una venta a credito requiere cliente")
		}
	} else if !req.Borrador {
		totalPagos := decimal.Zero
		for _, pago := range req.Pagos {
			totalPagos = totalPagos.Add(pago.Monto)
		}
		if totalPagos.LessThan(total) {
			return nil, ErrPagoInsuficiente
		}
	}

	tiendaID := s.tiendaVenta(sc)
	venta := model.Venta{
		TiendaID:       tiendaID,
		ClienteID:      clienteID,
		UsuarioID:      sc.UsuarioID,
		Subtotal:       subtotal,
		DescuentoTotal: descuentoTotal,
		Total:          total,
		MetodoPago:     req.MetodoPago,
		Estado:         model.VentaBorrador,
		Notas:          req.Notas,
	}
	for _, r := range resueltas {
		venta.Items = append(venta.Items, model.VentaItem{
			ProductoID:     r.productoID,
			Nombre:         r.nombre,
			Referencia:     r.referencia,
			Cantidad:       r.cantidad,
			PrecioUnitario: r.precio,
			Descuento:      r.descuento,
			Subtotal:       r.subtotal,
		})
	}
	if req.MetodoPago != model.PagoCredito {
		for _, pago := range req.Pagos {
			venta.Pagos = append(venta.Pagos, model.VentaPago{Metodo: pago.Metodo, Monto: pago.Monto})
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if !req.Borrador {
			numero, err := s.repo.NextNumeroFacturaTx(tx, tiendaID)
			if err != nil {
				return fmt.Errorf("asignando numero de factura: %w", err)
			}
			venta.NumeroFactura = numero
			venta.Estado = model.VentaCompletada
		}
		if err := s.repo.CreateTx(tx, &venta); err != nil {
			return err
		}
		if req.Borrador {
			return nil
		}
		return s.completarEnTx(tx, sc, &venta)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.auditar(ctx, sc, "crear", &venta)
	return ventaToResponse(&venta), nil
}

// completarEnTx deducts stock per line and opens the credito when the sale is
// financed. Runs inside the caller's transaction: any failed line aborts the
// whole completion.
func (s *ventaService) completarEnTx(tx *gorm.DB, sc model.StoreContext, venta *model.Venta) error {
	for _, item := range venta.Items {
		motivo := fmt.Sprintf("Venta #%d", venta.NumeroFactura)
		if _, err := s.stock.DescontarTx(tx, sc, item.ProductoID, item.Cantidad, model.MovimientoVenta, motivo, &venta.ID); err != nil {
			if errors.Is(err, ErrStockInsuficiente) {
				return fmt.Errorf("%s: %w", item.Nombre, ErrStockInsuficiente)
			}
			return fmt.Errorf("descontando stock de %s: %w", item.Nombre, err)
		}
	}

	if venta.MetodoPago == model.PagoCredito {
		credito := model.Credito{
			VentaID:        venta.ID,
			ClienteID:      *venta.ClienteID,
			TiendaID:       venta.TiendaID,
			MontoTotal:     venta.Total,
			MontoPagado:    decimal.Zero,
			MontoPendiente: venta.Total,
			Estado:         model.CreditoPendiente,
		}
		if err := s.creditoRepo.CreateTx(tx, &credito); err != nil {
			return fmt.Errorf("creando credito: %w", err)
		}
	}
	return nil
}

// ── CompletarVenta ───────────────────────────────────────────────────────────

func (s *ventaService) CompletarVenta(ctx context.Context, sc model.StoreContext, id uuid.UUID) (*dto.VentaResponse, error) {
	var venta *model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		v, err := s.repo.FindByIDForUpdate(tx, id)
		if err != nil {
			return fmt.Errorf("venta no encontrada: %w", err)
		}
		if v.Estado != model.VentaBorrador {
			return ErrEstadoInvalido
		}

		numero, err := s.repo.NextNumeroFacturaTx(tx, v.TiendaID)
		if err != nil {
			return fmt.Errorf("asignando numero de factura: %w", err)
		}
		if err := s.repo.AsignarNumeroFacturaTx(tx, v.ID, numero); err != nil {
			return err
		}
		v.NumeroFactura = numero

		if err := s.completarEnTx(tx, sc, v); err != nil {
			return err
		}
		if err := s.repo.UpdateEstadoTx(tx, v.ID, model.VentaBorrador, model.VentaCompletada); err != nil {
			if errors.Is(err, repository.ErrSinEfecto) {
				return ErrEstadoInvalido
			}
			return err
		}
		v.Estado = model.VentaCompletada
		venta = v
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.auditar(ctx, sc, "completar", venta)
	return ventaToResponse(venta), nil
}

// ── AnularVenta ──────────────────────────────────────────────────────────────
// State flip, payment reversal and credito writedown happen atomically; the
// stock return runs after, item by item, and reports partial failures instead
// of blocking the cancellation.

func (s *ventaService) AnularVenta(ctx context.Context, sc model.StoreContext, id uuid.UUID, motivo string) (*dto.AnulacionVentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("venta no encontrada: %w", err)
	}
	if venta.Estado == model.VentaAnulada {
		return nil, ErrEstadoInvalido
	}

	eraCompletada := venta.Estado == model.VentaCompletada
	totalRevertido := decimal.Zero

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateEstadoTx(tx, id, venta.Estado, model.VentaAnulada); err != nil {
			if errors.Is(err, repository.ErrSinEfecto) {
				return ErrEstadoInvalido
			}
			return err
		}
		if !eraCompletada {
			return nil
		}

		if venta.MetodoPago == model.PagoCredito {
			credito, err := s.creditoRepo.FindByVentaIDTx(tx, id)
			if err != nil {
				return fmt.Errorf("buscando credito de la venta: %w", err)
			}
			totalRevertido = credito.MontoPagado
			if err := s.creditoRepo.UpdateEstadoTx(tx, credito.ID, model.CreditoAnulado); err != nil {
				return err
			}
			if err := s.creditoRepo.AnularAbonosTx(tx, credito.ID); err != nil {
				return err
			}
		} else {
			for _, pago := range venta.Pagos {
				totalRevertido = totalRevertido.Add(pago.Monto)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := &dto.AnulacionVentaResponse{
		VentaID:        id.String(),
		TotalRevertido: totalRevertido,
	}

	// Borradores never touched stock; nothing to return.
	if eraCompletada {
		items := make([]dto.ItemDevolucion, 0, len(venta.Items))
		for _, item := range venta.Items {
			items = append(items, dto.ItemDevolucion{
				ProductoID: item.ProductoID.String(),
				Cantidad:   item.Cantidad,
			})
		}
		motivoDevolucion := fmt.Sprintf("Anulacion venta #%d: %s", venta.NumeroFactura, motivo)
		resp.DevolucionStock = s.stock.DevolverLote(ctx, sc, items, model.MovimientoAnulacion, motivoDevolucion, &venta.ID)
		if !resp.DevolucionStock.Exito {
			log.Warn().Str("venta_id", id.String()).Msg("devolucion de stock parcialmente fallida en anulacion")
		}
	}

	s.auditar(ctx, sc, "anular", venta)
	return resp, nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("venta no encontrada: %w", err)
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) ListVentas(ctx context.Context, sc model.StoreContext, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, s.tiendaVenta(sc), filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for _, v := range ventas {
		data = append(data, *ventaToResponse(&v))
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// auditar enqueues the bitacora entry; fire and forget.
func (s *ventaService) auditar(ctx context.Context, sc model.StoreContext, accion string, venta *model.Venta) {
	if s.dispatcher == nil || venta == nil {
		return
	}
	_ = s.dispatcher.EnqueueBitacora(ctx, map[string]interface{}{
		"usuario_id": sc.UsuarioID.String(),
		"modulo":     "ventas",
		"accion":     accion,
		"detalles": map[string]interface{}{
			"venta_id":       venta.ID.String(),
			"numero_factura": venta.NumeroFactura,
			"total":          venta.Total.String(),
		},
	})
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, dto.ItemVentaResponse{
			ProductoID:     item.ProductoID.String(),
			Nombre:         item.Nombre,
			Referencia:     item.Referencia,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Descuento:      item.Descuento,
			Subtotal:       item.Subtotal,
		})
	}
	pagos := make([]dto.PagoRequest, 0, len(v.Pagos))
	for _, p := range v.Pagos {
		pagos = append(pagos, dto.PagoRequest{Metodo: p.Metodo, Monto: p.Monto})
	}

	var clienteID, trasladoID *string
	if v.ClienteID != nil {
		id := v.ClienteID.String()
		clienteID = &id
	}
	if v.TrasladoID != nil {
		id := v.TrasladoID.String()
		trasladoID = &id
	}

	return &dto.VentaResponse{
		ID:             v.ID.String(),
		NumeroFactura:  v.NumeroFactura,
		TiendaID:       v.TiendaID.String(),
		ClienteID:      clienteID,
		TrasladoID:     trasladoID,
		Items:          items,
		Subtotal:       v.Subtotal,
		DescuentoTotal: v.DescuentoTotal,
		Total:          v.Total,
		MetodoPago:     v.MetodoPago,
		Pagos:          pagos,
		Estado:         v.Estado,
		CreatedAt:      v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
