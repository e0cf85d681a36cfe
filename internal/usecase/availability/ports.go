package availability

import (
	"context"

	domain "github.com/BruksfildServices01/barber-availability/internal/domain/availability"
)

// BookingLoader carrega do banco os atendimentos ativos de um dia.
// Erros de data malformada voltam como *domain.ParseError.
type BookingLoader interface {
	LoadBookings(ctx context.Context, date string) ([]domain.BookingSlot, error)
}

// ResourceDirectory diz se um barbeiro existe e está ativo.
type ResourceDirectory interface {
	ResourceActive(ctx context.Context, resourceID string) (bool, error)
}
