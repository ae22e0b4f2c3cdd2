package service

import (
	"context"
	"testing"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trasladoFixture struct {
	traslados   *stubTrasladoRepo
	ventas      *stubVentaRepo
	productos   *stubProductoRepo
	clientes    *stubClienteRepo
	tiendas     *stubTiendaRepo
	tiendaStock *stubTiendaStockRepo
	movimientos *stubMovimientoRepo
	svc         TrasladoService
	principalID uuid.UUID
	microID     uuid.UUID
}

func buildTrasladoSvc(productos ...*model.Producto) *trasladoFixture {
	principal := &model.Tienda{ID: uuid.New(), Nombre: "Tienda Principal", Tipo: model.TiendaPrincipal, Activa: true}
	micro := &model.Tienda{ID: uuid.New(), Nombre: "Zonat Norte", Tipo: model.TiendaMicro, Activa: true}

	f := &trasladoFixture{
		traslados:   newStubTrasladoRepo(),
		ventas:      newStubVentaRepo(),
		productos:   newStubProductoRepo(productos...),
		clientes:    newStubClienteRepo(),
		tiendas:     newStubTiendaRepo(principal, micro),
		tiendaStock: newStubTiendaStockRepo(),
		movimientos: &stubMovimientoRepo{},
		principalID: principal.ID,
		microID:     micro.ID,
	}
	stock := NewStockService(f.productos, f.tiendaStock, f.movimientos, f.principalID)
	f.svc = NewTrasladoService(f.traslados, f.ventas, f.productos, f.clientes, f.tiendas, stock, nil, f.principalID)
	return f
}

func (f *trasladoFixture) sc() model.StoreContext {
	return model.StoreContext{UsuarioID: uuid.New(), Rol: model.RolSupervisor}
}

func (f *trasladoFixture) scDe(tiendaID uuid.UUID) model.StoreContext {
	return model.StoreContext{UsuarioID: uuid.New(), TiendaID: &tiendaID, Rol: model.RolVendedor}
}

func (f *trasladoFixture) crear(t *testing.T, items ...dto.ItemTrasladoRequest) *dto.TrasladoResponse {
	t.Helper()
	resp, err := f.svc.Crear(context.Background(), f.sc(), dto.CrearTrasladoRequest{
		DestinoTiendaID: f.microID.String(),
		Items:           items,
	})
	require.NoError(t, err)
	return resp
}

func TestCrearTrasladoRegistraSplitYFactura(t *testing.T) {
	p := producto(10, 4)
	f := buildTrasladoSvc(p)

	resp := f.crear(t, dto.ItemTrasladoRequest{ProductoID: p.ID.String(), Cantidad: 12, Origen: "bodega"})

	assert.Equal(t, model.TrasladoPendiente, resp.Estado)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 10, resp.Items[0].DeBodega)
	assert.Equal(t, 2, resp.Items[0].DeLocal)

	// Origin already debited, destination untouched until receipt.
	assert.Equal(t, 0, f.productos.productos[p.ID].StockBodega)
	assert.Equal(t, 2, f.productos.productos[p.ID].StockLocal)
	assert.Equal(t, 0, f.tiendaStock.cantidad(f.microID, p.ID))

	// Principal → micro generates the internal invoice, linked by FK.
	require.NotNil(t, resp.FacturaVentaID)
	venta, err := f.ventas.FindByTrasladoID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, model.VentaCompletada, venta.Estado)
	assert.True(t, venta.Total.Equal(p.PrecioVenta.Mul(decimal.NewFromInt(12))))
	require.NotNil(t, venta.ClienteID)

	// The billed cliente is the row that represents the micro-tienda.
	cliente, err := f.clientes.FindByID(context.Background(), *venta.ClienteID)
	require.NoError(t, err)
	require.NotNil(t, cliente.TiendaID)
	assert.Equal(t, f.microID, *cliente.TiendaID)
}

func TestCrearTrasladoStockInsuficiente(t *testing.T) {
	p := producto(2, 1)
	f := buildTrasladoSvc(p)

	_, err := f.svc.Crear(context.Background(), f.sc(), dto.CrearTrasladoRequest{
		DestinoTiendaID: f.microID.String(),
		Items:           []dto.ItemTrasladoRequest{{ProductoID: p.ID.String(), Cantidad: 5}},
	})
	assert.ErrorIs(t, err, ErrStockInsuficiente)
	assert.Empty(t, f.traslados.traslados)
}

func TestCrearTrasladoMismoOrigenYDestino(t *testing.T) {
	f := buildTrasladoSvc(producto(5, 5))

	_, err := f.svc.Crear(context.Background(), f.scDe(f.microID), dto.CrearTrasladoRequest{
		DestinoTiendaID: f.microID.String(),
		Items:           []dto.ItemTrasladoRequest{{ProductoID: uuid.NewString(), Cantidad: 1}},
	})
	assert.ErrorIs(t, err, ErrTiendaInvalida)
}

func TestCrearTrasladoDestinoInactivo(t *testing.T) {
	p := producto(5, 5)
	f := buildTrasladoSvc(p)
	f.tiendas.tiendas[f.microID].Activa = false

	_, err := f.svc.Crear(context.Background(), f.sc(), dto.CrearTrasladoRequest{
		DestinoTiendaID: f.microID.String(),
		Items:           []dto.ItemTrasladoRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
	})
	assert.ErrorIs(t, err, ErrTiendaInvalida)
}

func TestRecibirCompletoAcreditaDestino(t *testing.T) {
	p := producto(10, 0)
	f := buildTrasladoSvc(p)
	creado := f.crear(t, dto.ItemTrasladoRequest{ProductoID: p.ID.String(), Cantidad: 6})

	// Lines omitted from the request count as received in full.
	resp, err := f.svc.Recibir(context.Background(), f.scDe(f.microID), uuid.MustParse(creado.ID), dto.RecibirTrasladoRequest{})
	require.NoError(t, err)

	assert.Equal(t, model.TrasladoRecibido, resp.Estado)
	require.NotNil(t, resp.Items[0].CantidadRecibida)
	assert.Equal(t, 6, *resp.Items[0].CantidadRecibida)
	assert.Equal(t, 6, f.tiendaStock.cantidad(f.microID, p.ID))

	// The destination row snapshots the transfer's unit price as cost.
	row, err := f.tiendaStock.Find(context.Background(), f.microID, p.ID)
	require.NoError(t, err)
	require.NotNil(t, row.Costo)
	assert.True(t, row.Costo.Equal(p.PrecioVenta))
}

func TestRecibirParcialDevuelveFaltanteBodegaPrimero(t *testing.T) {
	p := producto(2, 3)
	f := buildTrasladoSvc(p)

	// Preferring bodega: the split is DeBodega=2, DeLocal=3.
	creado := f.crear(t, dto.ItemTrasladoRequest{ProductoID: p.ID.String(), Cantidad: 5, Origen: "bodega"})
	require.Equal(t, 2, creado.Items[0].DeBodega)
	require.Equal(t, 3, creado.Items[0].DeLocal)

	resp, err := f.svc.Recibir(context.Background(), f.scDe(f.microID), uuid.MustParse(creado.ID), dto.RecibirTrasladoRequest{
		Items: []dto.ItemRecibidoRequest{{ProductoID: p.ID.String(), CantidadRecibida: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, model.TrasladoRecibidoParcial, resp.Estado)
	assert.Equal(t, 1, f.tiendaStock.cantidad(f.microID, p.ID))

	// Shortfall of 4 returns to the origin, bodega portion first: the 2 that
	// came from bodega go back there, the remaining 2 land in local.
	assert.Equal(t, 2, f.productos.productos[p.ID].StockBodega)
	assert.Equal(t, 2, f.productos.productos[p.ID].StockLocal)
}

func TestRecibirCantidadMayorALaEnviada(t *testing.T) {
	p := producto(10, 0)
	f := buildTrasladoSvc(p)
	creado := f.crear(t, dto.ItemTrasladoRequest{ProductoID: p.ID.String(), Cantidad: 3})

	_, err := f.svc.Recibir(context.Background(), f.scDe(f.microID), uuid.MustParse(creado.ID), dto.RecibirTrasladoRequest{
		Items: []dto.ItemRecibidoRequest{{ProductoID: p.ID.String(), CantidadRecibida: 4}},
	})
	assert.ErrorIs(t, err, ErrCantidadInvalida)
}

func TestRecibirSoloPersonalDelDestino(t *testing.T) {
	p := producto(10, 0)
	f := buildTrasladoSvc(p)
	creado := f.crear(t, dto.ItemTrasladoRequest{ProductoID: p.ID.String(), Cantidad: 3})

	otraTienda := uuid.New()
	_, err := f.svc.Recibir(context.Background(), f.scDe(otraTienda), uuid.MustParse(creado.ID), dto.RecibirTrasladoRequest{})
	assert.ErrorIs(t, err, ErrTiendaInvalida)
}

func TestRecibirDosVecesRechazado(t *testing.T) {
	p := producto(10, 0)
	f := buildTrasladoSvc(p)
	creado := f.crear(t, dto.ItemTrasladoRequest{ProductoID: p.ID.String(), Cantidad: 3})
	id := uuid.MustParse(creado.ID)

	_, err := f.svc.Recibir(context.Background(), f.scDe(f.microID), id, dto.RecibirTrasladoRequest{})
	require.NoError(t, err)

	_, err = f.svc.Recibir(context.Background(), f.scDe(f.microID), id, dto.RecibirTrasladoRequest{})
	assert.ErrorIs(t, err, ErrEstadoInvalido)
}

func TestAnularTrasladoRestauraSplitExacto(t *testing.T) {
	p := producto(2, 6)
	f := buildTrasladoSvc(p)

	creado := f.crear(t, dto.ItemTrasladoRequest{ProductoID: p.ID.String(), Cantidad: 5, Origen: "local"})
	require.Equal(t, 0, creado.Items[0].DeBodega)
	require.Equal(t, 5, creado.Items[0].DeLocal)

	resp, err := f.svc.Anular(context.Background(), f.sc(), uuid.MustParse(creado.ID), "enviado por error")
	require.NoError(t, err)

	assert.True(t, resp.TotalReembolso.Equal(p.PrecioVenta.Mul(decimal.NewFromInt(5))))
	assert.Equal(t, 2, f.productos.productos[p.ID].StockBodega)
	assert.Equal(t, 6, f.productos.productos[p.ID].StockLocal)

	// The internal invoice gets voided too.
	venta, err := f.ventas.FindByTrasladoID(context.Background(), uuid.MustParse(creado.ID))
	require.NoError(t, err)
	assert.Equal(t, model.VentaAnulada, venta.Estado)
}

func TestAnularTrasladoRegistraMotivoEnNotas(t *testing.T) {
	p := producto(10, 0)
	f := buildTrasladoSvc(p)
	creado := f.crear(t, dto.ItemTrasladoRequest{ProductoID: p.ID.String(), Cantidad: 3})
	id := uuid.MustParse(creado.ID)

	nota := "empaque fragil"
	f.traslados.traslados[id].Notas = &nota

	_, err := f.svc.Anular(context.Background(), f.sc(), id, "cliente desistio")
	require.NoError(t, err)

	guardado := f.traslados.traslados[id]
	require.NotNil(t, guardado.Notas)
	assert.Equal(t, "empaque fragil\nAnulado: cliente desistio", *guardado.Notas)
}

func TestDespacharMarcaEnTransito(t *testing.T) {
	p := producto(10, 0)
	f := buildTrasladoSvc(p)
	creado := f.crear(t, dto.ItemTrasladoRequest{ProductoID: p.ID.String(), Cantidad: 3})
	id := uuid.MustParse(creado.ID)

	resp, err := f.svc.Despachar(context.Background(), f.sc(), id)
	require.NoError(t, err)
	assert.Equal(t, model.TrasladoEnTransito, resp.Estado)
	assert.Equal(t, model.TrasladoEnTransito, f.traslados.traslados[id].Estado)

	// A dispatched traslado can still be received normally.
	recibido, err := f.svc.Recibir(context.Background(), f.scDe(f.microID), id, dto.RecibirTrasladoRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.TrasladoRecibido, recibido.Estado)
}

func TestDespacharSoloPersonalDelOrigen(t *testing.T) {
	p := producto(10, 0)
	f := buildTrasladoSvc(p)
	creado := f.crear(t, dto.ItemTrasladoRequest{ProductoID: p.ID.String(), Cantidad: 3})
	id := uuid.MustParse(creado.ID)

	// The destination's staff cannot dispatch a traslado that left the
	// principal; its state stays pendiente.
	_, err := f.svc.Despachar(context.Background(), f.scDe(f.microID), id)
	assert.ErrorIs(t, err, ErrTiendaInvalida)
	assert.Equal(t, model.TrasladoPendiente, f.traslados.traslados[id].Estado)
}

func TestDespacharDosVecesRechazado(t *testing.T) {
	p := producto(10, 0)
	f := buildTrasladoSvc(p)
	creado := f.crear(t, dto.ItemTrasladoRequest{ProductoID: p.ID.String(), Cantidad: 3})
	id := uuid.MustParse(creado.ID)

	_, err := f.svc.Despachar(context.Background(), f.sc(), id)
	require.NoError(t, err)

	_, err = f.svc.Despachar(context.Background(), f.sc(), id)
	assert.ErrorIs(t, err, ErrEstadoInvalido)
}

func TestAnularTrasladoRecibidoRechazado(t *testing.T) {
	p := producto(10, 0)
	f := buildTrasladoSvc(p)
	creado := f.crear(t, dto.ItemTrasladoRequest{ProductoID: p.ID.String(), Cantidad: 3})
	id := uuid.MustParse(creado.ID)

	_, err := f.svc.Recibir(context.Background(), f.scDe(f.microID), id, dto.RecibirTrasladoRequest{})
	require.NoError(t, err)

	_, err = f.svc.Anular(context.Background(), f.sc(), id, "tarde")
	assert.ErrorIs(t, err, ErrEstadoInvalido)
}

func TestTrasladoDesdeMicroNoGeneraFactura(t *testing.T) {
	p := producto(0, 0)
	f := buildTrasladoSvc(p)
	f.tiendaStock.seed(f.microID, p.ID, 8)

	// Micro → principal: goods flow back, no internal billing.
	resp, err := f.svc.Crear(context.Background(), f.scDe(f.microID), dto.CrearTrasladoRequest{
		DestinoTiendaID: f.principalID.String(),
		Items:           []dto.ItemTrasladoRequest{{ProductoID: p.ID.String(), Cantidad: 8}},
	})
	require.NoError(t, err)

	assert.Nil(t, resp.FacturaVentaID)
	assert.Equal(t, 0, f.tiendaStock.cantidad(f.microID, p.ID))
	assert.Equal(t, 0, resp.Items[0].DeBodega)
	assert.Equal(t, 8, resp.Items[0].DeLocal)

	// Receipt at the principal credits bodega.
	_, err = f.svc.Recibir(context.Background(), f.sc(), uuid.MustParse(resp.ID), dto.RecibirTrasladoRequest{})
	require.NoError(t, err)
	assert.Equal(t, 8, f.productos.productos[p.ID].StockBodega)
}
