package service

import "errors"

// Expected domain failures. Handlers match these with errors.Is and map them
// to 4xx responses; anything else is logged and surfaces as an opaque 500.
var (
	ErrStockInsuficiente     = errors.New("stock insuficiente")
	ErrCantidadInvalida      = errors.New("la cantidad debe ser mayor que cero")
	ErrUbicacionInvalida     = errors.New("ubicacion de stock invalida")
	ErrEstadoInvalido        = errors.New("el estado actual no permite la operacion")
	ErrPagoInsuficiente      = errors.New("el monto de los pagos no cubre el total")
	ErrPagoExcesivo          = errors.New("el abono excede el saldo pendiente")
	ErrTiendaInvalida        = errors.New("tienda invalida para la operacion")
	ErrCredencialesInvalidas = errors.New("credenciales invalidas")
)
