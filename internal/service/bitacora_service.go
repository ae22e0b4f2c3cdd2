package service

import (
	"context"
	"encoding/json"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"
	"github.com/programamos-tech/zonat-sub000/internal/repository"
	"github.com/programamos-tech/zonat-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BitacoraService writes the activity log. Registrar is fire and forget:
// entries go through the Redis queue and a worker persists them, so a slow
// audit write never sits on the request path.
type BitacoraService interface {
	Registrar(ctx context.Context, usuarioID uuid.UUID, modulo, accion string, detalles map[string]interface{})
	// Persistir writes an entry synchronously; the bitacora worker calls it.
	Persistir(ctx context.Context, entrada *model.Bitacora) error
	Listar(ctx context.Context, filter dto.BitacoraFilter) ([]dto.BitacoraResponse, int64, error)
}

type bitacoraService struct {
	repo       repository.BitacoraRepository
	dispatcher *worker.Dispatcher
}

func NewBitacoraService(repo repository.BitacoraRepository, dispatcher *worker.Dispatcher) BitacoraService {
	return &bitacoraService{repo: repo, dispatcher: dispatcher}
}

func (s *bitacoraService) Registrar(ctx context.Context, usuarioID uuid.UUID, modulo, accion string, detalles map[string]interface{}) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.EnqueueBitacora(ctx, map[string]interface{}{
		"usuario_id": usuarioID.String(),
		"modulo":     modulo,
		"accion":     accion,
		"detalles":   detalles,
	})
	if err != nil {
		log.Warn().Err(err).Str("modulo", modulo).Str("accion", accion).Msg("entrada de bitacora no encolada")
	}
}

func (s *bitacoraService) Persistir(ctx context.Context, entrada *model.Bitacora) error {
	if entrada.Detalles == "" {
		entrada.Detalles = "{}"
	} else if !json.Valid([]byte(entrada.Detalles)) {
		entrada.Detalles = "{}"
	}
	return s.repo.Create(ctx, entrada)
}

func (s *bitacoraService) Listar(ctx context.Context, filter dto.BitacoraFilter) ([]dto.BitacoraResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	entradas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.BitacoraResponse, 0, len(entradas))
	for _, e := range entradas {
		out = append(out, dto.BitacoraResponse{
			ID:        e.ID.String(),
			UsuarioID: e.UsuarioID.String(),
			Modulo:    e.Modulo,
			Accion:    e.Accion,
			Detalles:  e.Detalles,
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return out, total, nil
}
