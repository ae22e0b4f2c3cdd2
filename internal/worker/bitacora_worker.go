package worker

// bitacora_worker.go
// Persists activity log entries enqueued by the services. Keeping the write
// off the request path means a slow audit insert never delays a sale.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/programamos-tech/zonat-sub000/internal/model"
	"github.com/programamos-tech/zonat-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BitacoraJobPayload is the job envelope sent to QueueBitacora.
type BitacoraJobPayload struct {
	UsuarioID string                 `json:"usuario_id"`
	Modulo    string                 `json:"modulo"`
	Accion    string                 `json:"accion"`
	Detalles  map[string]interface{} `json:"detalles,omitempty"`
}

// BitacoraWorker writes queued audit entries to the bitacora table.
type BitacoraWorker struct {
	repo repository.BitacoraRepository
}

func NewBitacoraWorker(repo repository.BitacoraRepository) *BitacoraWorker {
	return &BitacoraWorker{repo: repo}
}

func (w *BitacoraWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload BitacoraJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("bitacora_worker: invalid payload: %w", err)
	}

	usuarioID, err := uuid.Parse(payload.UsuarioID)
	if err != nil {
		return fmt.Errorf("bitacora_worker: invalid usuario_id %q: %w", payload.UsuarioID, err)
	}

	detalles := "{}"
	if len(payload.Detalles) > 0 {
		data, err := json.Marshal(payload.Detalles)
		if err == nil {
			detalles = string(data)
		}
	}

	entrada := &model.Bitacora{
		UsuarioID: usuarioID,
		Modulo:    payload.Modulo,
		Accion:    payload.Accion,
		Detalles:  detalles,
	}
	if err := w.repo.Create(ctx, entrada); err != nil {
		return fmt.Errorf("bitacora_worker: persist entry: %w", err)
	}

	log.Debug().Str("modulo", payload.Modulo).Str("accion", payload.Accion).Msg("bitacora_worker: entry persisted")
	return nil
}
