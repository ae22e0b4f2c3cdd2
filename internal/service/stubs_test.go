package service

// In-memory repository stubs. DB() returns nil so runTx hands services a nil
// transaction and every mutation goes through the stub's own state. Guarded
// updates (AjustarContadoresTx, DescontarTx, AplicarAbonoTx, UpdateEstadoTx)
// emulate the production guard and fail with repository.ErrSinEfecto.

import (
	"context"
	"strings"
	"time"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"
	"github.com/programamos-tech/zonat-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── ProductoRepository ───────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

func newStubProductoRepo(productos ...*model.Producto) *stubProductoRepo {
	r := &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
	for _, p := range productos {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.productos[p.ID] = p
	}
	return r
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) FindByReferencia(_ context.Context, referencia string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Referencia == referencia {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListBajoMinimo(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.StockTotal() < p.StockMinimo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

func (r *stubProductoRepo) Eliminar(_ context.Context, id uuid.UUID) error {
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductoRepo) AjustarContadoresTx(_ *gorm.DB, id uuid.UUID, deltaBodega, deltaLocal int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if p.StockBodega+deltaBodega < 0 || p.StockLocal+deltaLocal < 0 {
		return repository.ErrSinEfecto
	}
	p.StockBodega += deltaBodega
	p.StockLocal += deltaLocal
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

// ── TiendaStockRepository ────────────────────────────────────────────────────

type tiendaStockKey struct {
	tienda, producto uuid.UUID
}

type stubTiendaStockRepo struct {
	rows map[tiendaStockKey]*model.TiendaStock
}

var _ repository.TiendaStockRepository = (*stubTiendaStockRepo)(nil)

func newStubTiendaStockRepo() *stubTiendaStockRepo {
	return &stubTiendaStockRepo{rows: make(map[tiendaStockKey]*model.TiendaStock)}
}

func (r *stubTiendaStockRepo) seed(tiendaID, productoID uuid.UUID, cantidad int) {
	r.rows[tiendaStockKey{tiendaID, productoID}] = &model.TiendaStock{
		ID:         uuid.New(),
		TiendaID:   tiendaID,
		ProductoID: productoID,
		Cantidad:   cantidad,
	}
}

func (r *stubTiendaStockRepo) cantidad(tiendaID, productoID uuid.UUID) int {
	if row, ok := r.rows[tiendaStockKey{tiendaID, productoID}]; ok {
		return row.Cantidad
	}
	return 0
}

func (r *stubTiendaStockRepo) Find(_ context.Context, tiendaID, productoID uuid.UUID) (*model.TiendaStock, error) {
	return r.FindTx(nil, tiendaID, productoID)
}

func (r *stubTiendaStockRepo) FindTx(_ *gorm.DB, tiendaID, productoID uuid.UUID) (*model.TiendaStock, error) {
	row, ok := r.rows[tiendaStockKey{tiendaID, productoID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *stubTiendaStockRepo) ListarPorTienda(_ context.Context, tiendaID uuid.UUID, _, _ int) ([]model.TiendaStock, int64, error) {
	var out []model.TiendaStock
	for _, row := range r.rows {
		if row.TiendaID == tiendaID {
			out = append(out, *row)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubTiendaStockRepo) ListarPorProducto(_ context.Context, productoID uuid.UUID) ([]model.TiendaStock, error) {
	var out []model.TiendaStock
	for _, row := range r.rows {
		if row.ProductoID == productoID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *stubTiendaStockRepo) IncrementarTx(_ *gorm.DB, tiendaID, productoID uuid.UUID, delta int, costoInicial decimal.Decimal) error {
	key := tiendaStockKey{tiendaID, productoID}
	if row, ok := r.rows[key]; ok {
		row.Cantidad += delta
		return nil
	}
	costo := costoInicial
	r.rows[key] = &model.TiendaStock{
		ID:         uuid.New(),
		TiendaID:   tiendaID,
		ProductoID: productoID,
		Cantidad:   delta,
		Costo:      &costo,
	}
	return nil
}

func (r *stubTiendaStockRepo) DescontarTx(_ *gorm.DB, tiendaID, productoID uuid.UUID, cantidad int) error {
	row, ok := r.rows[tiendaStockKey{tiendaID, productoID}]
	if !ok || row.Cantidad < cantidad {
		return repository.ErrSinEfecto
	}
	row.Cantidad -= cantidad
	return nil
}

func (r *stubTiendaStockRepo) ActualizarPrecioTx(_ *gorm.DB, tiendaID, productoID uuid.UUID, costo, precio *decimal.Decimal) error {
	row, ok := r.rows[tiendaStockKey{tiendaID, productoID}]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if costo != nil {
		row.Costo = costo
	}
	if precio != nil {
		row.Precio = precio
	}
	return nil
}

func (r *stubTiendaStockRepo) DB() *gorm.DB { return nil }

// ── MovimientoStockRepository ────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, filter dto.MovimientoFilter) ([]model.MovimientoStock, int64, error) {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		if filter.ProductoID != "" && m.ProductoID.String() != filter.ProductoID {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovimientoRepo) ListPorReferencia(_ context.Context, referenciaID uuid.UUID) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.ReferenciaID != nil && *m.ReferenciaID == referenciaID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMovimientoRepo) porTipo(tipo string) []model.MovimientoStock {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.Tipo == tipo {
			out = append(out, m)
		}
	}
	return out
}

// ── VentaRepository ──────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas       map[uuid.UUID]*model.Venta
	consecutivos map[uuid.UUID]int
}

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{
		ventas:       make(map[uuid.UUID]*model.Venta),
		consecutivos: make(map[uuid.UUID]int),
	}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Items {
		if v.Items[i].ID == uuid.Nil {
			v.Items[i].ID = uuid.New()
		}
		v.Items[i].VentaID = v.ID
	}
	cp := *v
	cp.Items = append([]model.VentaItem(nil), v.Items...)
	cp.Pagos = append([]model.VentaPago(nil), v.Pagos...)
	r.ventas[v.ID] = &cp
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	cp.Items = append([]model.VentaItem(nil), v.Items...)
	return &cp, nil
}

func (r *stubVentaRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubVentaRepo) FindByTrasladoID(_ context.Context, trasladoID uuid.UUID) (*model.Venta, error) {
	for _, v := range r.ventas {
		if v.TrasladoID != nil && *v.TrasladoID == trasladoID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVentaRepo) List(_ context.Context, tiendaID uuid.UUID, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if v.TiendaID == tiendaID {
			out = append(out, *v)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) ListCompletadasChunk(_ context.Context, desde, hasta time.Time, offset, limit int) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if v.Estado == model.VentaCompletada {
			out = append(out, *v)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, desde, hacia string) error {
	v, ok := r.ventas[id]
	if !ok || v.Estado != desde {
		return repository.ErrSinEfecto
	}
	v.Estado = hacia
	return nil
}

func (r *stubVentaRepo) AsignarNumeroFacturaTx(_ *gorm.DB, id uuid.UUID, numero int) error {
	v, ok := r.ventas[id]
	if !ok {
		return repository.ErrSinEfecto
	}
	v.NumeroFactura = numero
	return nil
}

func (r *stubVentaRepo) NextNumeroFacturaTx(_ *gorm.DB, tiendaID uuid.UUID) (int, error) {
	r.consecutivos[tiendaID]++
	return r.consecutivos[tiendaID], nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

// ── CreditoRepository ────────────────────────────────────────────────────────

type stubCreditoRepo struct {
	creditos map[uuid.UUID]*model.Credito
}

var _ repository.CreditoRepository = (*stubCreditoRepo)(nil)

func newStubCreditoRepo() *stubCreditoRepo {
	return &stubCreditoRepo{creditos: make(map[uuid.UUID]*model.Credito)}
}

func (r *stubCreditoRepo) CreateTx(_ *gorm.DB, c *model.Credito) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.creditos[c.ID] = c
	return nil
}

func (r *stubCreditoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Credito, error) {
	c, ok := r.creditos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	cp.Abonos = append([]model.Abono(nil), c.Abonos...)
	return &cp, nil
}

func (r *stubCreditoRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Credito, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubCreditoRepo) FindByVentaID(_ context.Context, ventaID uuid.UUID) (*model.Credito, error) {
	for _, c := range r.creditos {
		if c.VentaID == ventaID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCreditoRepo) FindByVentaIDTx(_ *gorm.DB, ventaID uuid.UUID) (*model.Credito, error) {
	return r.FindByVentaID(context.Background(), ventaID)
}

func (r *stubCreditoRepo) List(_ context.Context, _ dto.CreditoFilter) ([]model.Credito, int64, error) {
	var out []model.Credito
	for _, c := range r.creditos {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCreditoRepo) CreateAbonoTx(_ *gorm.DB, a *model.Abono) error {
	c, ok := r.creditos[a.CreditoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	c.Abonos = append(c.Abonos, *a)
	return nil
}

func (r *stubCreditoRepo) AplicarAbonoTx(_ *gorm.DB, creditoID uuid.UUID, monto decimal.Decimal, nuevoEstado string) error {
	c, ok := r.creditos[creditoID]
	if !ok || monto.GreaterThan(c.MontoPendiente) {
		return repository.ErrSinEfecto
	}
	c.MontoPagado = c.MontoPagado.Add(monto)
	c.MontoPendiente = c.MontoPendiente.Sub(monto)
	c.Estado = nuevoEstado
	return nil
}

func (r *stubCreditoRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	c, ok := r.creditos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Estado = estado
	return nil
}

func (r *stubCreditoRepo) AnularAbonosTx(_ *gorm.DB, creditoID uuid.UUID) error {
	c, ok := r.creditos[creditoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range c.Abonos {
		c.Abonos[i].Anulado = true
	}
	return nil
}

func (r *stubCreditoRepo) DB() *gorm.DB { return nil }

// ── TrasladoRepository ───────────────────────────────────────────────────────

type stubTrasladoRepo struct {
	traslados map[uuid.UUID]*model.Traslado
}

var _ repository.TrasladoRepository = (*stubTrasladoRepo)(nil)

func newStubTrasladoRepo() *stubTrasladoRepo {
	return &stubTrasladoRepo{traslados: make(map[uuid.UUID]*model.Traslado)}
}

func (r *stubTrasladoRepo) CreateTx(_ *gorm.DB, t *model.Traslado) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	for i := range t.Items {
		if t.Items[i].ID == uuid.Nil {
			t.Items[i].ID = uuid.New()
		}
		t.Items[i].TrasladoID = t.ID
	}
	cp := *t
	cp.Items = append([]model.TrasladoItem(nil), t.Items...)
	r.traslados[t.ID] = &cp
	return nil
}

func (r *stubTrasladoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Traslado, error) {
	t, ok := r.traslados[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	cp.Items = append([]model.TrasladoItem(nil), t.Items...)
	return &cp, nil
}

func (r *stubTrasladoRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Traslado, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubTrasladoRepo) List(_ context.Context, _ dto.TrasladoFilter) ([]model.Traslado, int64, error) {
	var out []model.Traslado
	for _, t := range r.traslados {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTrasladoRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, desdeEstados []string, hacia string) error {
	t, ok := r.traslados[id]
	if !ok {
		return repository.ErrSinEfecto
	}
	for _, desde := range desdeEstados {
		if t.Estado == desde {
			t.Estado = hacia
			return nil
		}
	}
	return repository.ErrSinEfecto
}

func (r *stubTrasladoRepo) AnularTx(_ *gorm.DB, id uuid.UUID, desdeEstados []string, notas *string) error {
	t, ok := r.traslados[id]
	if !ok {
		return repository.ErrSinEfecto
	}
	for _, desde := range desdeEstados {
		if t.Estado == desde {
			t.Estado = model.TrasladoAnulado
			t.Notas = notas
			return nil
		}
	}
	return repository.ErrSinEfecto
}

func (r *stubTrasladoRepo) MarcarRecibidoTx(_ *gorm.DB, id uuid.UUID, estado string, recibidoPor uuid.UUID) error {
	t, ok := r.traslados[id]
	if !ok || !t.EsRecibible() {
		return repository.ErrSinEfecto
	}
	now := time.Now()
	t.Estado = estado
	t.RecibidoPor = &recibidoPor
	t.RecibidoAt = &now
	return nil
}

func (r *stubTrasladoRepo) UpdateItemRecibidoTx(_ *gorm.DB, itemID uuid.UUID, cantidadRecibida int) error {
	for _, t := range r.traslados {
		for i := range t.Items {
			if t.Items[i].ID == itemID {
				c := cantidadRecibida
				t.Items[i].CantidadRecibida = &c
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubTrasladoRepo) DB() *gorm.DB { return nil }

// ── TiendaRepository ─────────────────────────────────────────────────────────

type stubTiendaRepo struct {
	tiendas map[uuid.UUID]*model.Tienda
}

var _ repository.TiendaRepository = (*stubTiendaRepo)(nil)

func newStubTiendaRepo(tiendas ...*model.Tienda) *stubTiendaRepo {
	r := &stubTiendaRepo{tiendas: make(map[uuid.UUID]*model.Tienda)}
	for _, t := range tiendas {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		r.tiendas[t.ID] = t
	}
	return r
}

func (r *stubTiendaRepo) Create(_ context.Context, t *model.Tienda) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tiendas[t.ID] = t
	return nil
}

func (r *stubTiendaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Tienda, error) {
	t, ok := r.tiendas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTiendaRepo) FindPrincipal(_ context.Context) (*model.Tienda, error) {
	for _, t := range r.tiendas {
		if t.Tipo == model.TiendaPrincipal {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTiendaRepo) List(_ context.Context, soloActivas bool) ([]model.Tienda, error) {
	var out []model.Tienda
	for _, t := range r.tiendas {
		if soloActivas && !t.Activa {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *stubTiendaRepo) Update(_ context.Context, t *model.Tienda) error {
	r.tiendas[t.ID] = t
	return nil
}

func (r *stubTiendaRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	if t, ok := r.tiendas[id]; ok {
		t.Activa = false
	}
	return nil
}

// ── ClienteRepository ────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubClienteRepo) FindOrCreatePorTiendaTx(_ *gorm.DB, tiendaID uuid.UUID, nombre string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.TiendaID != nil && *c.TiendaID == tiendaID {
			cp := *c
			return &cp, nil
		}
	}
	tid := tiendaID
	c := &model.Cliente{ID: uuid.New(), Nombre: nombre, TiendaID: &tid, Activo: true}
	r.clientes[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r *stubClienteRepo) List(_ context.Context, buscar string, _, _ int) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if buscar != "" && !strings.Contains(strings.ToLower(c.Nombre), strings.ToLower(buscar)) {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	if c, ok := r.clientes[id]; ok {
		c.Activo = false
	}
	return nil
}

// ── GarantiaRepository ───────────────────────────────────────────────────────

type stubGarantiaRepo struct {
	garantias map[uuid.UUID]*model.Garantia
}

var _ repository.GarantiaRepository = (*stubGarantiaRepo)(nil)

func newStubGarantiaRepo() *stubGarantiaRepo {
	return &stubGarantiaRepo{garantias: make(map[uuid.UUID]*model.Garantia)}
}

func (r *stubGarantiaRepo) Create(_ context.Context, g *model.Garantia) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	r.garantias[g.ID] = g
	return nil
}

func (r *stubGarantiaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Garantia, error) {
	g, ok := r.garantias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *stubGarantiaRepo) List(_ context.Context, estado string, _, _ int) ([]model.Garantia, int64, error) {
	var out []model.Garantia
	for _, g := range r.garantias {
		if estado != "" && g.Estado != estado {
			continue
		}
		out = append(out, *g)
	}
	return out, int64(len(out)), nil
}

func (r *stubGarantiaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string, atendidaPor uuid.UUID, resolucion string) error {
	g, ok := r.garantias[id]
	if !ok || g.Estado != model.GarantiaAbierta {
		return repository.ErrSinEfecto
	}
	g.Estado = estado
	g.AtendidaPor = &atendidaPor
	g.Resolucion = &resolucion
	return nil
}

// ── UsuarioRepository ────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

func newStubUsuarioRepo(usuarios ...*model.Usuario) *stubUsuarioRepo {
	r := &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
	for _, u := range usuarios {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.usuarios[u.ID] = u
	}
	return r
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Activo = false
	}
	return nil
}

func (r *stubUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Activo = true
	}
	return nil
}
