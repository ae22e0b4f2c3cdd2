package model

import "github.com/google/uuid"

// Ubicacion identifies which counter of the main-store ledger an operation
// targets. Micro-tiendas only have UbicacionLocal.
type Ubicacion string

const (
	UbicacionBodega Ubicacion = "bodega"
	UbicacionLocal  Ubicacion = "local"
)

func (u Ubicacion) Valida() bool {
	return u == UbicacionBodega || u == UbicacionLocal
}

// StoreContext carries the acting user's store assignment into every ledger
// and traslado call. Callers resolve it once (from JWT claims) and pass it
// explicitly, so services stay testable without a simulated session store.
//
// TiendaID == nil means the user operates on the tienda principal.
type StoreContext struct {
	UsuarioID uuid.UUID
	TiendaID  *uuid.UUID
	Rol       string
}

// EsPrincipal reports whether the context targets the main store's ledger
// (productos.stock_bodega / stock_local) instead of a tienda_stock row.
// principalID is the well-known id of the tienda principal.
func (s StoreContext) EsPrincipal(principalID uuid.UUID) bool {
	return s.TiendaID == nil || *s.TiendaID == principalID
}
